package controllers

import (
	"errors"

	"github.com/amirfagh/justeat/pkg/resp"
	"github.com/amirfagh/justeat/repository"
	"github.com/amirfagh/justeat/services"
	"github.com/amirfagh/justeat/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	Orders   *services.OrderService
	Checkout *services.CheckoutService
}

func NewOrderController(orders *services.OrderService, checkout *services.CheckoutService) *OrderController {
	return &OrderController{Orders: orders, Checkout: checkout}
}

// GET /cart/quote?orderType=
func (oc *OrderController) Quote(c *gin.Context) {
	q, err := oc.Checkout.Preview(utils.CurrentUserID(c), orderTypeParam(c))
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, q)
}

// POST /orders/checkout
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CheckoutIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	receipt, err := oc.Checkout.Checkout(c.Request.Context(), utils.CurrentUserID(c), &req)
	switch {
	case err == nil:
		resp.Created(c, receipt)
	case errors.Is(err, services.ErrCartEmpty), errors.Is(err, services.ErrInvalidOrderType):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSubmissionInFlight):
		resp.Conflict(c, err.Error())
	case errors.Is(err, repository.ErrSequenceMissing):
		// not retryable until an operator seeds the counter
		resp.Unavailable(c, "ordering is not configured, contact the restaurant")
	default:
		resp.ServerError(c, services.ErrPlaceOrderFailed)
	}
}

// GET /orders/latest/status
func (oc *OrderController) LatestStatus(c *gin.Context) {
	st, err := oc.Orders.LatestStatus(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, st)
}

// GET /orders/:id (owner or admin)
func (oc *OrderController) Detail(c *gin.Context) {
	o, err := oc.Orders.Get(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c), c.Param("id"))
	switch {
	case err == nil:
		resp.OK(c, o)
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "order not found")
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// GET /profile/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	items, err := oc.Orders.History(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}
