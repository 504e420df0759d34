package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	saledomain "github.com/billhive/billhive/internal/sale/domain"
)

func (s *Server) SalesReport(c *gin.Context) {
	from, to := reportRange(c)

	rows, err := s.saleSvc.Report(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) SalesReportPDF(c *gin.Context) {
	from, to := reportRange(c)

	rows, err := s.saleSvc.Report(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(rows) == 0 {
		AbortWithError(c, saledomain.ErrNoSales)
		return
	}

	data, err := s.saleSvc.RenderPDF(c.Request.Context(), rows, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", s.reportFilename(from, to, "pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) SalesReportExcel(c *gin.Context) {
	from, to := reportRange(c)

	rows, err := s.saleSvc.Report(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(rows) == 0 {
		AbortWithError(c, saledomain.ErrNoSales)
		return
	}

	data, err := s.saleSvc.RenderExcel(c.Request.Context(), rows, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", s.reportFilename(from, to, "xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func reportRange(c *gin.Context) (string, string) {
	return strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to"))
}

func (s *Server) reportFilename(from, to, ext string) string {
	prefix := s.reportCfg.Get().FilenamePrefix
	return fmt.Sprintf(`attachment; filename="%s_%s_to_%s.%s"`, prefix, from, to, ext)
}
