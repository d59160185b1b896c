package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api. requireAuth guards every route
// except the banner and the health check.
func RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, jobs *JobHandler, resumes *ResumeHandler) {
	r.GET("/", Root)

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)

		secured := api.Group("", requireAuth)

		// Job Routes
		secured.POST("/jobs", jobs.CreateJob)
		secured.GET("/jobs", jobs.ListJobs)
		secured.GET("/jobs/:id", jobs.GetJob)
		secured.PATCH("/jobs/:id/status", jobs.UpdateJobStatus)
		secured.GET("/jobs/:id/candidates", jobs.ListCandidates)
		secured.GET("/jobs/:id/candidates/export", jobs.ExportCandidates)

		// Resume Routes
		secured.POST("/resumes/analyze", resumes.Analyze)
		secured.POST("/resumes/generate-email", resumes.GenerateEmail)
		secured.PATCH("/resumes/status", resumes.UpdateStatus)
		secured.DELETE("/resumes/:id", resumes.DeleteCandidate)
		secured.GET("/resumes/:id/file", resumes.ResumeFile)
	}
}
