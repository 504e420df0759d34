// Package server exposes the HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/billhive/billhive/internal/auth"
	authdomain "github.com/billhive/billhive/internal/auth/domain"
	"github.com/billhive/billhive/internal/config"
	"github.com/billhive/billhive/internal/debt"
	debtdomain "github.com/billhive/billhive/internal/debt/domain"
	"github.com/billhive/billhive/internal/invoice"
	invoicedomain "github.com/billhive/billhive/internal/invoice/domain"
	"github.com/billhive/billhive/internal/sale"
	saledomain "github.com/billhive/billhive/internal/sale/domain"
	"github.com/billhive/billhive/internal/sequence"
	"github.com/billhive/billhive/internal/settings"
	settingsdomain "github.com/billhive/billhive/internal/settings/domain"
	"github.com/billhive/billhive/internal/stock"
	stockdomain "github.com/billhive/billhive/internal/stock/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	sequence.Module,
	stock.Module,
	settings.Module,
	invoice.Module,
	sale.Module,
	debt.Module,
	auth.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	genID       *snowflake.Node
	authSvc     authdomain.Service
	invoiceSvc  invoicedomain.Service
	stockSvc    stockdomain.Service
	settingsSvc settingsdomain.Service
	saleSvc     saledomain.Service
	debtSvc     debtdomain.Service
	reportCfg   *config.ReportConfigHolder
	metrics     *Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	GenID       *snowflake.Node
	AuthSvc     authdomain.Service
	InvoiceSvc  invoicedomain.Service
	StockSvc    stockdomain.Service
	SettingsSvc settingsdomain.Service
	SaleSvc     saledomain.Service
	DebtSvc     debtdomain.Service
	ReportCfg   *config.ReportConfigHolder
	Metrics     prometheus.Registerer `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	if p.Metrics == nil {
		p.Metrics = prometheus.DefaultRegisterer
	}
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		genID:       p.GenID,
		authSvc:     p.AuthSvc,
		invoiceSvc:  p.InvoiceSvc,
		stockSvc:    p.StockSvc,
		settingsSvc: p.SettingsSvc,
		saleSvc:     p.SaleSvc,
		debtSvc:     p.DebtSvc,
		reportCfg:   p.ReportCfg,
		metrics:     NewMetrics(p.Metrics),
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAuthRoutes() {
	g := s.engine.Group("/api/auth")
	g.POST("/register", s.Register)
	g.POST("/login", s.Login)
	g.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	g := s.engine.Group("/api", s.AuthRequired())

	g.GET("/invoices/new", s.PreviewInvoiceNumber)
	g.POST("/invoices", s.CreateInvoice)
	g.GET("/invoices/:invoiceNo", s.GetInvoiceByNumber)

	g.POST("/items", s.AddStock)
	g.GET("/items/names", s.ItemNames)
	g.GET("/items/info", s.ItemInfo)

	g.GET("/sales/report", s.SalesReport)
	g.GET("/sales/report/pdf", s.SalesReportPDF)
	g.GET("/sales/report/excel", s.SalesReportExcel)

	g.GET("/shop-info", s.GetShopInfo)
	g.POST("/shop-info", s.UpsertShopInfo)

	g.POST("/debts", s.AddDebt)
	g.GET("/debts", s.DebtSummary)
	g.GET("/debts/:number", s.DebtsByNumber)
}
