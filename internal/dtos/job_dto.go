package dtos

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type JobStatusRequest struct {
	Status string `json:"status" binding:"required"` // "Active" or "archived"
}

type JobListQuery struct {
	Status string `form:"status"`
}
