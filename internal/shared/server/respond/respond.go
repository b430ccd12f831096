// Package respond writes the JSON envelope used by every endpoint:
// {"success": true, "data": ...} on success and
// {"success": false, "error": "..."} on failure.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination describes the page window returned by list endpoints.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// JSON writes a success envelope with the given status.
func JSON(c *gin.Context, status int, body gin.H) {
	if _, ok := body["success"]; !ok {
		body["success"] = true
	}
	c.JSON(status, body)
}

// OK writes a 200 envelope wrapping data.
func OK(c *gin.Context, data any) {
	JSON(c, http.StatusOK, gin.H{"data": data})
}

// OKMessage writes a 200 envelope with a message only.
func OKMessage(c *gin.Context, message string) {
	JSON(c, http.StatusOK, gin.H{"message": message})
}

// Created writes a 201 envelope with a message and data.
func Created(c *gin.Context, message string, data any) {
	JSON(c, http.StatusCreated, gin.H{"message": message, "data": data})
}
