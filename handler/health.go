package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root answers load balancer health checks on "/".
func Root(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	}
}

func Health(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName, "version": version})
	}
}
