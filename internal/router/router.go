// Package router sets up the gin engine and attaches all routes.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/config"
	"github.com/pocketledger/backend/internal/controllers/healthz"
	v1 "github.com/pocketledger/backend/internal/controllers/v1"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// New sets up the router and all middlewares.
func New(cfg config.Config, co v1.Controller) (*gin.Engine, error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, _ zerolog.Logger) zerolog.Logger {
			// The middleware itself appends latency, method, path,
			// status, size, and user agent to the final event.
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Logger()
		})))

	if err := registerPrometheusMetrics(); err != nil {
		return nil, err
	}
	r.Use(MetricsMiddleware())

	// Resolve the logged-in user into the request context. Handlers refuse
	// operations without one.
	r.Use(SessionMiddleware(co.DB))

	// CORS settings
	if len(cfg.CORSAllowOrigins) > 0 {
		log.Debug().Strs("allowOrigins", cfg.CORSAllowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	/*
	 *  Route setup
	 */
	r.GET("", GetRoot)
	r.OPTIONS("", OptionsRoot)
	r.GET("/version", GetVersion)
	r.OPTIONS("/version", OptionsVersion)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthz.RegisterRoutes(r.Group("/healthz"))

	// pprof performance profiles
	if cfg.EnablePprof {
		pprof.RouteRegister(r.Group("/"), "debug/pprof")
	}

	// API v1 setup
	apiV1 := r.Group("/v1")
	{
		apiV1.GET("", GetV1)
		apiV1.OPTIONS("", OptionsV1)
	}

	co.RegisterUserRoutes(apiV1.Group("/users"))
	co.RegisterWalletRoutes(apiV1.Group("/wallets"))
	co.RegisterCategoryRoutes(apiV1.Group("/categories"))
	co.RegisterTransactionRoutes(apiV1.Group("/transactions"))
	co.RegisterBudgetRoutes(apiV1.Group("/budgets"))
	co.RegisterStatsRoutes(apiV1.Group("/stats"))

	log.Info().Str("version", version).Msg("backend startup complete")

	return r, nil
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Healthz string `json:"healthz" example:"https://example.com/healthz"`
	Version string `json:"version" example:"https://example.com/version"`
	V1      string `json:"v1" example:"https://example.com/v1"`
}

// GetRoot is the entrypoint for the API, listing all endpoints.
func GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Healthz: "/healthz",
			Version: "/version",
			V1:      "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// GetVersion returns the software version of the API.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

func OptionsRoot(c *gin.Context) {
	c.Header("allow", "GET")
	c.Status(http.StatusNoContent)
}

func OptionsVersion(c *gin.Context) {
	c.Header("allow", "GET")
	c.Status(http.StatusNoContent)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Users        string `json:"users" example:"https://example.com/v1/users"`
	Wallets      string `json:"wallets" example:"https://example.com/v1/wallets"`
	Categories   string `json:"categories" example:"https://example.com/v1/categories"`
	Transactions string `json:"transactions" example:"https://example.com/v1/transactions"`
	Budgets      string `json:"budgets" example:"https://example.com/v1/budgets"`
	Stats        string `json:"stats" example:"https://example.com/v1/stats"`
}

// GetV1 returns general information about the v1 API.
func GetV1(c *gin.Context) {
	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Users:        "/v1/users",
			Wallets:      "/v1/wallets",
			Categories:   "/v1/categories",
			Transactions: "/v1/transactions",
			Budgets:      "/v1/budgets",
			Stats:        "/v1/stats",
		},
	})
}

func OptionsV1(c *gin.Context) {
	c.Header("allow", "GET")
	c.Status(http.StatusNoContent)
}
