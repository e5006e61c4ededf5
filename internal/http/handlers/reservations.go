package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/modules/reservations"
	"dineezy.in/app/internal/shared/apperr"
)

type ReservationsHandler struct {
	Svc  *reservations.Service
	Repo *reservations.Repo
}

func NewReservationsHandler(svc *reservations.Service, repo *reservations.Repo) *ReservationsHandler {
	return &ReservationsHandler{Svc: svc, Repo: repo}
}

type createReservationBody struct {
	RestaurantID string    `json:"restaurantId" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Phone        string    `json:"phone" binding:"required"`
	Email        string    `json:"email" binding:"omitempty,email"`
	PartySize    int       `json:"partySize" binding:"required,min=1,max=20"`
	ReservedFor  time.Time `json:"reservedFor" binding:"required"`
	Notes        string    `json:"notes"`
}

// POST /api/reservations
func (h *ReservationsHandler) Create(c *gin.Context) {
	var body createReservationBody
	if !bindJSON(c, &body) {
		return
	}

	r, err := h.Svc.Create(c.Request.Context(), reservations.CreateInput{
		RestaurantID: body.RestaurantID,
		Name:         body.Name,
		Phone:        body.Phone,
		Email:        body.Email,
		PartySize:    body.PartySize,
		ReservedFor:  body.ReservedFor,
		Notes:        body.Notes,
	})
	if err != nil {
		if errors.Is(err, reservations.ErrInvalidInput) {
			middleware.Fail(c, apperr.InvalidErr("Reservation details are invalid.", nil))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"reservationId": r.ID,
		"status":        r.Status,
		"reservedFor":   r.ReservedFor,
	})
}

// GET /api/admin/reservations?status=&day=2026-09-01
func (h *ReservationsHandler) AdminList(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	var day time.Time
	if d := c.Query("day"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			middleware.Fail(c, apperr.InvalidErr("day must be YYYY-MM-DD.", nil))
			return
		}
		day = parsed
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	list, total, err := h.Repo.List(c.Request.Context(), reservations.ListParams{
		RestaurantID: admin.RestaurantID,
		Status:       c.Query("status"),
		Day:          day,
		Page:         page,
		PageSize:     size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reservations": list, "total": total})
}

// POST /api/admin/reservations/:id/transition
func (h *ReservationsHandler) AdminTransition(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	var body transitionBody
	if !bindJSON(c, &body) {
		return
	}

	err := h.Svc.Transition(c.Request.Context(), reservations.TransitionInput{
		ReservationID: c.Param("id"),
		ActorAdminID:  admin.ID,
		Action:        body.Action,
		Note:          body.Note,
	})
	if err != nil {
		if errors.Is(err, reservations.ErrInvalidTransition) {
			middleware.Fail(c, apperr.ConflictErr("Reservation cannot take this action in its current state."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type assignTableBody struct {
	TableID string `json:"tableId" binding:"required"`
}

// POST /api/admin/reservations/:id/table
func (h *ReservationsHandler) AdminAssignTable(c *gin.Context) {
	var body assignTableBody
	if !bindJSON(c, &body) {
		return
	}

	err := h.Svc.AssignTable(c.Request.Context(), c.Param("id"), body.TableID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrTableTooSmall):
			middleware.Fail(c, apperr.ConflictErr("Table capacity is below the party size."))
		case errors.Is(err, reservations.ErrTableUnavailable):
			middleware.Fail(c, apperr.ConflictErr("Table is already booked for this slot."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/admin/tables
func (h *ReservationsHandler) AdminListTables(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	tables, err := h.Repo.ListTables(c.Request.Context(), admin.RestaurantID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tables": tables})
}

type createTableBody struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// POST /api/admin/tables
func (h *ReservationsHandler) AdminCreateTable(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	var body createTableBody
	if !bindJSON(c, &body) {
		return
	}

	t, err := h.Repo.CreateTable(c.Request.Context(), admin.RestaurantID, body.Name, body.Capacity)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "table": t})
}
