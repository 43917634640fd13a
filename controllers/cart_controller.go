package controllers

import (
	"errors"
	"strconv"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/pkg/resp"
	"github.com/amirfagh/justeat/services"
	"github.com/amirfagh/justeat/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

func orderTypeParam(c *gin.Context) entity.OrderType {
	return entity.OrderType(c.DefaultQuery("orderType", string(entity.OrderTypeDelivery)))
}

func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "menu item not found")
	case errors.Is(err, services.ErrCartLineIndex):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCartBusy):
		resp.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUnknownOption):
		resp.BadRequest(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// GET /cart?orderType=
func (h *CartController) Get(c *gin.Context) {
	t := orderTypeParam(c)
	if !t.Valid() {
		resp.BadRequest(c, services.ErrInvalidOrderType.Error())
		return
	}
	resp.OK(c, h.Svc.Get(utils.CurrentUserID(c), t))
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	view, err := h.Svc.Add(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		cartError(c, err)
		return
	}
	resp.Created(c, view)
}

// PUT /cart/items/:index
func (h *CartController) Replace(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		resp.BadRequest(c, "invalid index")
		return
	}
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	view, err := h.Svc.Replace(c.Request.Context(), utils.CurrentUserID(c), index, &req)
	if err != nil {
		cartError(c, err)
		return
	}
	resp.OK(c, view)
}

// DELETE /cart/items/:index
func (h *CartController) Remove(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		resp.BadRequest(c, "invalid index")
		return
	}
	view, err := h.Svc.Remove(utils.CurrentUserID(c), index)
	if err != nil {
		cartError(c, err)
		return
	}
	resp.OK(c, view)
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	if err := h.Svc.Clear(utils.CurrentUserID(c)); err != nil {
		cartError(c, err)
		return
	}
	resp.OK(c, gin.H{"cleared": true})
}
