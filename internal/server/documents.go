package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/ragbridge/internal/ident"
	"github.com/mohammad-safakhou/ragbridge/internal/ragclient"
	"github.com/mohammad-safakhou/ragbridge/internal/runtime"
)

// RAGProxy is the slice of the RAG client the document endpoints need.
type RAGProxy interface {
	Upload(ctx context.Context, in ragclient.UploadInput) (interface{}, error)
	ListIDs(ctx context.Context) (interface{}, error)
	Preview(ctx context.Context, fileID string) (interface{}, error)
	DefaultFileIDs() []string
	DefaultEntityID() string
}

// DocumentsHandler proxies document operations to the RAG service so the UI
// never needs upstream credentials or network details.
type DocumentsHandler struct {
	Client RAGProxy
	Logger *log.Logger
}

func (h *DocumentsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(runtime.EchoAuthMiddleware(secret))
	g.POST("/upload", h.upload)
	g.GET("/ids", h.list)
	g.GET("/:file_id/preview", h.preview)
}

// upload forwards a multipart document to the RAG embed endpoint.
func (h *DocumentsHandler) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	fileID := ident.NormalizeWithDefaults(c.FormValue("file_id"), h.Client.DefaultFileIDs())
	entityID := c.FormValue("entity_id")
	if entityID == "" {
		entityID = h.Client.DefaultEntityID()
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.Client.Upload(c.Request().Context(), ragclient.UploadInput{
		FileID:      fileID,
		EntityID:    entityID,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return ragHTTPError(err)
	}

	h.Logger.Printf("document uploaded: file_id=%s filename=%s size=%d", fileID, fh.Filename, len(content))
	return c.JSON(http.StatusCreated, UploadResponse{
		Message:     "Document uploaded successfully",
		FileID:      fileID,
		RAGResponse: result,
	})
}

// list returns all known file identifiers from the RAG store.
func (h *DocumentsHandler) list(c echo.Context) error {
	result, err := h.Client.ListIDs(c.Request().Context())
	if err != nil {
		return ragHTTPError(err)
	}
	return c.JSON(http.StatusOK, IDsResponse{IDs: result})
}

// preview fetches condensed context for the provided document identifier.
func (h *DocumentsHandler) preview(c echo.Context) error {
	fileID := ident.NormalizeWithDefaults(c.Param("file_id"), h.Client.DefaultFileIDs())
	result, err := h.Client.Preview(c.Request().Context(), fileID)
	if err != nil {
		return ragHTTPError(err)
	}
	return c.JSON(http.StatusOK, PreviewResponse{FileID: fileID, Chunks: result})
}

// ragHTTPError converts client failures into HTTP errors. Unlike the agent
// tool, the proxy surfaces every failure to its caller.
func ragHTTPError(err error) error {
	var se *ragclient.StatusError
	switch {
	case errors.As(err, &se):
		msg := se.Body
		if msg == "" {
			msg = http.StatusText(se.Code)
		}
		return echo.NewHTTPError(se.Code, "RAG request failed: "+msg)
	case errors.Is(err, ragclient.ErrTimeout):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "RAG request timed out")
	default:
		return echo.NewHTTPError(http.StatusBadGateway, "RAG request failed: "+err.Error())
	}
}
