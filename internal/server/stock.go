package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	stockdomain "github.com/billhive/billhive/internal/stock/domain"
)

func (s *Server) AddStock(c *gin.Context) {
	var req stockdomain.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.stockSvc.Upsert(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) ItemNames(c *gin.Context) {
	names, err := s.stockSvc.Names(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": names})
}

func (s *Server) ItemInfo(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.stockSvc.Info(c.Request.Context(), currentUserID(c), name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
