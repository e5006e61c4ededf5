package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/modules/orders"
	"dineezy.in/app/internal/modules/payments"
	"dineezy.in/app/internal/shared/apperr"
)

type OrdersHandler struct {
	Logger   *slog.Logger
	Svc      *orders.Service
	Repo     *orders.Repo
	AdminSvc *orders.AdminService
	PaySvc   *payments.Service
}

func NewOrdersHandler(logger *slog.Logger, svc *orders.Service, repo *orders.Repo, adminSvc *orders.AdminService, paySvc *payments.Service) *OrdersHandler {
	return &OrdersHandler{Logger: logger, Svc: svc, Repo: repo, AdminSvc: adminSvc, PaySvc: paySvc}
}

type orderItemBody struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type createOrderBody struct {
	RestaurantID  string          `json:"restaurantId" binding:"required"`
	FirstName     string          `json:"firstName" binding:"required"`
	LastName      string          `json:"lastName"`
	Phone         string          `json:"phone" binding:"required"`
	Email         string          `json:"email" binding:"omitempty,email"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	ReservationID string          `json:"reservationId"`
	Items         []orderItemBody `json:"items" binding:"required,min=1,dive"`
}

// POST /api/orders — checkout submission.
func (h *OrdersHandler) Create(c *gin.Context) {
	var body createOrderBody
	if !bindJSON(c, &body) {
		return
	}

	items := make([]orders.CreateItemInput, len(body.Items))
	for i, it := range body.Items {
		items[i] = orders.CreateItemInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}

	res, err := h.Svc.Create(c.Request.Context(), orders.CreateInput{
		RestaurantID:  body.RestaurantID,
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		Phone:         body.Phone,
		Email:         body.Email,
		PaymentMethod: body.PaymentMethod,
		ReservationID: body.ReservationID,
		Items:         items,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyOrder), errors.Is(err, orders.ErrInvalidMethod):
			middleware.Fail(c, apperr.InvalidErr("Order is invalid.", nil))
		case errors.Is(err, orders.ErrItemUnavailable):
			middleware.Fail(c, apperr.InvalidErr("An item in your cart is unavailable.", nil))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"orderId":     res.Order.ID,
		"status":      res.Order.Status,
		"totalAmount": res.Order.TotalAmount,
		"currency":    res.Order.Currency,
	})
}

// GET /api/orders/:id
func (h *OrdersHandler) Detail(c *gin.Context) {
	id := c.Param("id")

	o, items, err := h.Repo.GetWithItems(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		return
	}

	out := gin.H{
		"id":            o.ID,
		"status":        o.Status,
		"paymentStatus": o.PaymentStatus,
		"paymentMethod": o.PaymentMethod,
		"totalAmount":   o.TotalAmount,
		"currency":      o.Currency,
		"createdAt":     o.CreatedAt,
	}
	list := make([]gin.H, len(items))
	for i, it := range items {
		list[i] = gin.H{
			"name":      it.Name,
			"unitPrice": it.UnitPrice,
			"quantity":  it.Quantity,
			"lineTotal": it.LineTotal,
		}
	}
	out["items"] = list

	c.JSON(http.StatusOK, gin.H{"success": true, "order": out})
}

// GET /api/admin/orders
func (h *OrdersHandler) AdminList(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	res, err := h.Repo.List(c.Request.Context(), orders.ListParams{
		RestaurantID: admin.RestaurantID,
		Status:       c.Query("status"),
		Phone:        c.Query("phone"),
		Page:         page,
		PageSize:     size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, len(res.Items))
	for i, it := range res.Items {
		items[i] = gin.H{
			"id":            it.Order.ID,
			"customerName":  it.Order.CustomerFirstName + " " + it.Order.CustomerLastName,
			"customerPhone": it.Order.CustomerPhone,
			"status":        it.Order.Status,
			"paymentStatus": it.Order.PaymentStatus,
			"paymentMethod": it.Order.PaymentMethod,
			"totalAmount":   it.Order.TotalAmount,
			"itemCount":     it.Count,
			"createdAt":     it.Order.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": items, "total": res.Total})
}

type transitionBody struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

// POST /api/admin/orders/:id/transition
func (h *OrdersHandler) AdminTransition(c *gin.Context) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	var body transitionBody
	if !bindJSON(c, &body) {
		return
	}

	err := h.AdminSvc.Transition(c.Request.Context(), orders.TransitionInput{
		OrderID:      c.Param("id"),
		ActorAdminID: admin.ID,
		Action:       body.Action,
		Note:         body.Note,
	})
	if err != nil {
		if errors.Is(err, orders.ErrInvalidTransition) {
			middleware.Fail(c, apperr.ConflictErr("Order cannot take this action in its current state."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/admin/orders/:id/settle — record cash / pay-later payment.
func (h *OrdersHandler) AdminSettle(c *gin.Context) {
	if _, ok := middleware.CurrentAdmin(c); !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Authentication required."))
		return
	}

	id := c.Param("id")
	o, _, err := h.Repo.GetWithItems(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		return
	}
	if o.PaymentStatus == orders.PaymentCompleted {
		middleware.Fail(c, apperr.ConflictErr("Order already paid."))
		return
	}
	if o.PaymentMethod == orders.MethodOnline {
		middleware.Fail(c, apperr.ConflictErr("Online orders settle through the gateway."))
		return
	}

	email := ""
	if o.CustomerEmail != nil {
		email = *o.CustomerEmail
	}

	txnID, err := h.PaySvc.RecordOffline(c.Request.Context(), payments.RecordOfflineInput{
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		Amount:       o.TotalAmount,
		Currency:     o.Currency,
		Method:       o.PaymentMethod,
		CustomerInfo: payments.CustomerInfo{
			FirstName: o.CustomerFirstName,
			LastName:  o.CustomerLastName,
			Phone:     o.CustomerPhone,
			Email:     email,
		},
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transactionId": txnID})
}
