package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/billhive/billhive/internal/invoice/domain"
)

func (s *Server) PreviewInvoiceNumber(c *gin.Context) {
	invoiceNo, err := s.invoiceSvc.PreviewNumber(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"invoice_no": invoiceNo}})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	start := time.Now()
	resp, err := s.invoiceSvc.Create(c.Request.Context(), currentUserID(c), req)
	s.metrics.ObserveInvoiceCreate(start, err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByNumber(c *gin.Context) {
	invoiceNo := c.Param("invoiceNo")

	item, err := s.invoiceSvc.GetByNumber(c.Request.Context(), currentUserID(c), invoiceNo)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
