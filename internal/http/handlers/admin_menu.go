package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/media"
	"dineezy.in/app/internal/modules/menu"
	"dineezy.in/app/internal/shared/apperr"
)

const maxImageSize = 5 << 20 // 5 MiB

type AdminMenuHandler struct {
	Repo  *menu.Repo
	Store media.ImageStore
}

func NewAdminMenuHandler(repo *menu.Repo, store media.ImageStore) *AdminMenuHandler {
	return &AdminMenuHandler{Repo: repo, Store: store}
}

type createCategoryBody struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

// POST /api/admin/menu/categories
func (h *AdminMenuHandler) CreateCategory(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	var body createCategoryBody
	if !bindJSON(c, &body) {
		return
	}

	cat, err := h.Repo.CreateCategory(c.Request.Context(), admin.RestaurantID, body.Name, body.SortOrder)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "category": cat})
}

type createItemBody struct {
	CategoryID  string  `json:"categoryId" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Veg         bool    `json:"veg"`
}

// POST /api/admin/menu/items
func (h *AdminMenuHandler) CreateItem(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	var body createItemBody
	if !bindJSON(c, &body) {
		return
	}

	item, err := h.Repo.CreateItem(c.Request.Context(), menu.CreateItemInput{
		RestaurantID: admin.RestaurantID,
		CategoryID:   body.CategoryID,
		Name:         body.Name,
		Description:  body.Description,
		Price:        body.Price,
		Veg:          body.Veg,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

type availabilityBody struct {
	Available *bool `json:"available" binding:"required"`
}

// PATCH /api/admin/menu/items/:id/availability
func (h *AdminMenuHandler) SetAvailability(c *gin.Context) {
	var body availabilityBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.Repo.SetAvailability(c.Request.Context(), c.Param("id"), *body.Available); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/admin/menu/items/:id/image — multipart upload.
func (h *AdminMenuHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Image file is required.", nil))
		return
	}
	if file.Size > maxImageSize {
		middleware.Fail(c, apperr.InvalidErr("Image too large (max 5 MB).", nil))
		return
	}

	src, err := file.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer src.Close()

	res, err := h.Store.Put(c.Request.Context(), src, media.PutInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
	})
	if err != nil {
		if err == media.ErrUnsupportedType {
			middleware.Fail(c, apperr.InvalidErr("Only JPEG, PNG and WebP images are accepted.", nil))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	if err := h.Repo.SetImage(c.Request.Context(), c.Param("id"), res.URL); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": res.URL})
}
