package controllers

import (
	"github.com/amirfagh/justeat/pkg/resp"
	"github.com/amirfagh/justeat/services"

	"github.com/gin-gonic/gin"
)

type SettingsController struct{ Svc *services.SettingsService }

func NewSettingsController(s *services.SettingsService) *SettingsController {
	return &SettingsController{Svc: s}
}

// GET /settings/restaurant
func (ctl *SettingsController) Restaurant(c *gin.Context) {
	st, err := ctl.Svc.Restaurant(c.Request.Context())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, st)
}
