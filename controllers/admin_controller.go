package controllers

import (
	"errors"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/pkg/resp"
	"github.com/amirfagh/justeat/repository"
	"github.com/amirfagh/justeat/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController exposes the fulfillment operator's actions.
type AdminController struct {
	Orders   *services.OrderService
	Settings *services.SettingsService
}

func NewAdminController(orders *services.OrderService, settings *services.SettingsService) *AdminController {
	return &AdminController{Orders: orders, Settings: settings}
}

type advanceReq struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// PATCH /admin/orders/:id/status
func (ac *AdminController) AdvanceOrder(c *gin.Context) {
	var req advanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, err := ac.Orders.Advance(c.Request.Context(), c.Param("id"), req.Status)
	switch {
	case err == nil:
		resp.OK(c, o)
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "order not found")
	case errors.Is(err, services.ErrInvalidTransition):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrConflict):
		resp.Conflict(c, "order changed concurrently, reload and retry")
	default:
		resp.ServerError(c, err)
	}
}

type restaurantReq struct {
	IsOpen *bool `json:"isOpen" binding:"required"`
}

// PUT /admin/settings/restaurant
func (ac *AdminController) SetRestaurant(c *gin.Context) {
	var req restaurantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	st, err := ac.Settings.SetRestaurantOpen(c.Request.Context(), *req.IsOpen)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, st)
}

type seedSequenceReq struct {
	Start int64 `json:"start" binding:"min=0"`
}

// POST /admin/order-sequence
func (ac *AdminController) SeedSequence(c *gin.Context) {
	var req seedSequenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cur, err := ac.Orders.SeedSequence(c.Request.Context(), req.Start)
	if errors.Is(err, repository.ErrSequenceExists) {
		resp.Conflict(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, gin.H{"currentSequence": cur})
}
