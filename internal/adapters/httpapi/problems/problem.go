// Package problems writes the JSON error envelope shared by every API route.
package problems

import (
	"github.com/gin-gonic/gin"
)

type Problem struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"QR code not found"`
}

func WriteProblem(c *gin.Context, status int, msg string) {
	c.JSON(status, Problem{Success: false, Error: msg})
}

// AbortWithProblem is WriteProblem for middleware that must stop the chain.
func AbortWithProblem(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Problem{Success: false, Error: msg})
}
