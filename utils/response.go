// utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError writes the standard error envelope.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message},
	})
}

// RespondWithAppError maps a service error to its HTTP status.
func RespondWithAppError(c *gin.Context, err error) {
	RespondWithError(c, StatusForError(err), err.Error())
}
