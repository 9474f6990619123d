package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/ragbridge/config"
	"github.com/mohammad-safakhou/ragbridge/internal/ragclient"
	"github.com/mohammad-safakhou/ragbridge/internal/runtime"
	"github.com/mohammad-safakhou/ragbridge/tools"
	"github.com/mohammad-safakhou/ragbridge/tools/ragsearch"
)

// Run wires the service and blocks serving HTTP.
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	registerDocs(e)
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	secret, err := runtime.LoadJWTSecret(cfg)
	if err != nil {
		return err
	}

	// shared outbound client and the tool surface built on it
	ragLogger := log.New(log.Writer(), "[RAG] ", log.LstdFlags)
	client := ragclient.NewClient(cfg.RAG, ragLogger)
	searchTool := ragsearch.New(client, log.New(log.Writer(), "[TOOL] ", log.LstdFlags))
	registry := tools.NewRegistry(searchTool)

	api := e.Group("/api")

	auth := &AuthHandler{Cfg: cfg.Server, Secret: secret}
	auth.Register(api.Group("/auth"))

	// protected group example
	me := api.Group("/me")
	me.Use(runtime.EchoAuthMiddleware(secret))
	me.GET("", func(c echo.Context) error {
		return c.JSON(200, MeResponse{UserID: c.Get("user_id").(string)})
	})

	dh := &DocumentsHandler{Client: client, Logger: ragLogger}
	dh.Register(api.Group("/documents"), secret)

	th := &ToolsHandler{Registry: registry}
	th.Register(api.Group("/tools"), secret)

	defaultFileID := ""
	if ids := client.DefaultFileIDs(); len(ids) > 0 {
		defaultFileID = ids[0]
	}
	registerUI(e, defaultFileID)

	if addr == "" {
		addr = cfg.Server.Address
		if addr != "" && addr[0] != ':' {
			addr = ":" + addr
		}
		if addr == "" {
			addr = ":10002"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
