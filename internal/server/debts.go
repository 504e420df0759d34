package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	debtdomain "github.com/billhive/billhive/internal/debt/domain"
)

func (s *Server) AddDebt(c *gin.Context) {
	var req debtdomain.AddDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	debt, err := s.debtSvc.Add(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": debt})
}

func (s *Server) DebtSummary(c *gin.Context) {
	rows, err := s.debtSvc.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) DebtsByNumber(c *gin.Context) {
	debts, err := s.debtSvc.ListByNumber(c.Request.Context(), currentUserID(c), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": debts})
}
