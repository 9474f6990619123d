// Package ragclient performs authenticated HTTP calls against the external
// RAG service and classifies their failures for the two calling layers.
package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/mohammad-safakhou/ragbridge/config"
	"github.com/mohammad-safakhou/ragbridge/internal/metrics"
)

// Proxy-facing operations get extra headroom on top of the base timeout so
// the UI request does not race the upstream one.
const proxyTimeoutMargin = 20 * time.Second

// Token TTL floors per calling layer.
const (
	queryTokenFloor = 10 * time.Second
	proxyTokenFloor = 30 * time.Second
)

// operation labels for logs and metrics
const (
	opUpload  = "upload"
	opListIDs = "list_ids"
	opPreview = "preview"
	opQuery   = "query"
)

// UploadInput carries one document to index.
type UploadInput struct {
	FileID      string
	EntityID    string
	Filename    string
	ContentType string
	Content     []byte
}

// QueryInput is a semantic search request. FileIDs must be non-empty; the
// caller resolves defaults before reaching the client.
type QueryInput struct {
	Query    string
	FileIDs  []string
	TopK     int
	EntityID string
}

// Client talks to the RAG service. It holds no per-request state; every
// method performs exactly one outbound call.
type Client struct {
	cfg         config.RAGConfig
	baseURL     string
	queryClient *http.Client
	proxyClient *http.Client
	queryIssuer *TokenIssuer
	proxyIssuer *TokenIssuer
	logger      *log.Logger
}

// NewClient wires a client from config. logger may be nil.
func NewClient(cfg config.RAGConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[RAG] ", log.LstdFlags)
	}
	cfg = cfg.Normalize()
	return &Client{
		cfg:         cfg,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		queryClient: &http.Client{Timeout: cfg.Timeout},
		proxyClient: &http.Client{Timeout: cfg.Timeout + proxyTimeoutMargin},
		queryIssuer: NewTokenIssuer(cfg, queryTokenFloor, logger),
		proxyIssuer: NewTokenIssuer(cfg, proxyTokenFloor, logger),
		logger:      logger,
	}
}

// DefaultFileIDs returns the configured fallback identifiers, blank entries
// removed.
func (c *Client) DefaultFileIDs() []string {
	out := make([]string, 0, len(c.cfg.DefaultFileIDs))
	for _, id := range c.cfg.DefaultFileIDs {
		if strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}

// DefaultTopK returns the configured passage count, at least 1.
func (c *Client) DefaultTopK() int {
	if c.cfg.DefaultTopK < 1 {
		return 1
	}
	return c.cfg.DefaultTopK
}

// DefaultEntityID returns the configured entity scope, possibly empty.
func (c *Client) DefaultEntityID() string { return c.cfg.EntityID }

// Upload sends a document to the embed endpoint as multipart form data.
func (c *Client) Upload(ctx context.Context, in UploadInput) (interface{}, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(in.Filename)))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(in.Content); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if err := w.WriteField("file_id", in.FileID); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if in.EntityID != "" {
		if err := w.WriteField("entity_id", in.EntityID); err != nil {
			return nil, fmt.Errorf("building multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ensureLeadingSlash(c.cfg.EmbedPath), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, opUpload, c.proxyClient, c.proxyIssuer)
}

// ListIDs fetches all known file identifiers.
func (c *Client) ListIDs(ctx context.Context) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ensureLeadingSlash(c.cfg.IDsPath), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, opListIDs, c.proxyClient, c.proxyIssuer)
}

// Preview fetches condensed context chunks for one document.
func (c *Client) Preview(ctx context.Context, fileID string) (interface{}, error) {
	path := strings.ReplaceAll(ensureLeadingSlash(c.cfg.ContextPath), "{file_id}", url.PathEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, opPreview, c.proxyClient, c.proxyIssuer)
}

// Query performs a semantic search. Single- and multi-identifier requests go
// to distinct endpoints with distinct payload keys.
func (c *Client) Query(ctx context.Context, in QueryInput) (interface{}, error) {
	if len(in.FileIDs) == 0 {
		return nil, errors.New("query requires at least one file id")
	}
	topK := in.TopK
	if topK < 1 {
		topK = 1
	}

	endpoint := ensureLeadingSlash(c.cfg.QueryPath)
	payload := map[string]interface{}{
		"query": in.Query,
		"k":     topK,
	}
	if len(in.FileIDs) > 1 {
		endpoint = ensureLeadingSlash(c.cfg.QueryMultiplePath)
		payload["file_ids"] = in.FileIDs
	} else {
		payload["file_id"] = in.FileIDs[0]
	}
	if in.EntityID != "" {
		payload["entity_id"] = in.EntityID
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, opQuery, c.queryClient, c.queryIssuer)
}

// do executes one request: fresh token, single attempt, no retries. The
// response is decoded as JSON when declared so, returned as text otherwise.
func (c *Client) do(req *http.Request, op string, hc *http.Client, issuer *TokenIssuer) (interface{}, error) {
	if token, ok := issuer.Issue(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			metrics.ObserveRAGRequest(op, metrics.OutcomeTimeout, time.Since(start))
			c.logger.Printf("%s %s timed out after %s", op, req.URL, time.Since(start))
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		metrics.ObserveRAGRequest(op, metrics.OutcomeNetwork, time.Since(start))
		c.logger.Printf("%s %s network error: %v", op, req.URL, err)
		return nil, fmt.Errorf("rag request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveRAGRequest(op, metrics.OutcomeNetwork, time.Since(start))
		return nil, fmt.Errorf("rag response read failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		metrics.ObserveRAGRequest(op, metrics.OutcomeStatus, time.Since(start))
		c.logger.Printf("%s %s failed: status=%d body=%s", op, req.URL, resp.StatusCode, truncateForLog(body))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var out interface{}
		if err := json.Unmarshal(body, &out); err != nil {
			metrics.ObserveRAGRequest(op, metrics.OutcomeDecode, time.Since(start))
			c.logger.Printf("%s %s returned malformed json: %v", op, req.URL, err)
			return nil, &DecodeError{Err: err}
		}
		metrics.ObserveRAGRequest(op, metrics.OutcomeOK, time.Since(start))
		return out, nil
	}

	metrics.ObserveRAGRequest(op, metrics.OutcomeOK, time.Since(start))
	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func ensureLeadingSlash(v string) string {
	if v == "" || strings.HasPrefix(v, "/") {
		return v
	}
	return "/" + v
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, `\"`).Replace(s)
}

func truncateForLog(b []byte) string {
	const max = 512
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
