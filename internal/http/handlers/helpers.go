package handlers

import (
	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/http/validation"
	"dineezy.in/app/internal/shared/apperr"
)

// bindJSON binds the request body and converts validation failures into a
// field-level 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fields := validation.FromBindError(err, dst)
		middleware.Fail(c, apperr.InvalidErr("Missing or invalid fields.", fields))
		return false
	}
	return true
}
