package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/order-service/internal/api/handler"
	"github.com/99minutos/order-service/internal/api/middleware"
	"github.com/99minutos/order-service/internal/core/ports"
)

const bodyLimit = "1M"

// Deps carries everything the HTTP layer needs. Services are constructed by
// the caller so the router stays free of storage concerns.
type Deps struct {
	Log            zerolog.Logger
	Debug          bool
	RequestTimeout time.Duration

	Tokens   ports.TokenVerifier
	Guard    ports.AccessGuard
	Auth     ports.AuthService
	Products ports.ProductService
	Orders   ports.OrderService
	Payments ports.PaymentService

	HealthChecks []handler.DependencyCheck

	// MetricsRegisterer defaults to the global Prometheus registry.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Debug)
	e.Validator = handler.NewValidator()

	registerer := d.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	if d.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
			Timeout: d.RequestTimeout,
			// Deadline errors fall through to the central handler as 500s.
			ErrorHandler: func(err error, c echo.Context) error { return err },
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	productHandler := handler.NewProductHandler(d.Products)
	orderHandler := handler.NewOrderHandler(d.Orders)
	paymentHandler := handler.NewPaymentHandler(d.Payments)

	authn := middleware.Auth(d.Tokens)
	admin := middleware.RequireAdmin(d.Guard)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authn)

	// --- Product routes: public reads, admin writes ---
	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, authn, admin)
	products.PUT("/:id", productHandler.Update, authn, admin)
	products.DELETE("/:id", productHandler.Delete, authn, admin)

	// --- Order routes ---
	orders := api.Group("/orders", authn)
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List, admin)
	orders.GET("/mine", orderHandler.Mine)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id/status", orderHandler.UpdateStatus, admin)
	orders.DELETE("/:id", orderHandler.Delete)
	orders.POST("/:id/payments", paymentHandler.Record)
	orders.GET("/:id/payments", paymentHandler.ListForOrder)

	// --- Payment routes ---
	api.GET("/payments/:id", paymentHandler.Get, authn)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.HealthChecks...).Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var evt *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			default:
				evt = log.Info()
			}
			if errors.Is(v.Error, context.DeadlineExceeded) {
				evt = evt.Bool("timeout", true)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
