package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/modules/admins"
	"dineezy.in/app/internal/shared/apperr"
)

type AdminAuthHandler struct {
	Svc *admins.Service
}

func NewAdminAuthHandler(svc *admins.Service) *AdminAuthHandler {
	return &AdminAuthHandler{Svc: svc}
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/admin/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var body loginBody
	if !bindJSON(c, &body) {
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, admins.ErrInvalidCredentials) {
			middleware.Fail(c, apperr.UnauthorizedErr("Invalid email or password."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"admin": gin.H{
			"id":           res.Admin.ID,
			"name":         res.Admin.Name,
			"email":        res.Admin.Email,
			"restaurantId": res.Admin.RestaurantID,
		},
	})
}

// POST /api/admin/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := ""
	if strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimSpace(header[len("Bearer "):])
	}
	if token != "" {
		_ = h.Svc.Logout(c.Request.Context(), token)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
