package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Banner is what GET / answers; clients poll it to wake a sleeping host.
const Banner = "TalentScout AI Backend is Active"

func Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
