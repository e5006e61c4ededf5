package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/modules/menu"
	"dineezy.in/app/internal/shared/apperr"
)

type MenuHandler struct {
	Repo *menu.Repo
}

func NewMenuHandler(repo *menu.Repo) *MenuHandler {
	return &MenuHandler{Repo: repo}
}

// GET /api/menu?restaurantId=...
func (h *MenuHandler) List(c *gin.Context) {
	restaurantID := c.Query("restaurantId")
	if restaurantID == "" {
		middleware.Fail(c, apperr.InvalidErr("restaurantId is required.", nil))
		return
	}

	groups, err := h.Repo.ListAvailable(c.Request.Context(), restaurantID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "menu": groups})
}
