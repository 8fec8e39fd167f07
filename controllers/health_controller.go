package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /healthz
func Healthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}
