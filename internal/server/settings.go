package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingsdomain "github.com/billhive/billhive/internal/settings/domain"
)

func (s *Server) UpsertShopInfo(c *gin.Context) {
	var req settingsdomain.UpsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	saved, err := s.settingsSvc.Upsert(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved})
}

func (s *Server) GetShopInfo(c *gin.Context) {
	settings, err := s.settingsSvc.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if settings == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": settings})
}
