package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/ragbridge/internal/runtime"
	"github.com/mohammad-safakhou/ragbridge/tools"
)

// ToolsHandler surfaces the registered agent tools so the orchestrator can
// discover rag_search and its input schema.
type ToolsHandler struct {
	Registry *tools.Registry
}

func (h *ToolsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(runtime.EchoAuthMiddleware(secret))
	g.GET("", h.list)
}

func (h *ToolsHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Registry.List())
}
