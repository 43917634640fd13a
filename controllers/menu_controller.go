package controllers

import (
	"errors"

	"github.com/amirfagh/justeat/pkg/resp"
	"github.com/amirfagh/justeat/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuController struct{ Svc *services.MenuService }

func NewMenuController(s *services.MenuService) *MenuController { return &MenuController{Svc: s} }

// GET /menu
func (ctl *MenuController) List(c *gin.Context) {
	groups, err := ctl.Svc.Grouped(c.Request.Context())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"categories": groups})
}

// GET /menu/:id (with options)
func (ctl *MenuController) Get(c *gin.Context) {
	item, err := ctl.Svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp.NotFound(c, "menu item not found")
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, item)
}
