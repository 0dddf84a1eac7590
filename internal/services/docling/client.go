package docling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
)

// Client renders documents through docling-serve's synchronous convert
// endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Engine = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a docling-serve client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Convert.EngineURL), "/")
	if baseURL == "" {
		return nil, errors.New("docling engine url required")
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Convert.TimeoutSeconds) * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type convertResponse struct {
	Document *documentPayload `json:"document"`
	Status   string           `json:"status"`
	Errors   []string         `json:"errors"`
}

type documentPayload struct {
	Filename string `json:"filename"`
	HTML     string `json:"html_content"`
	Markdown string `json:"md_content"`
}

// Render uploads the document at path and returns both renditions from the
// engine's single conversion pass.
func (c *Client) Render(ctx context.Context, path string) (Rendition, error) {
	source, err := os.Open(path)
	if err != nil {
		return Rendition{}, fmt.Errorf("open document: %w", err)
	}
	defer source.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return Rendition{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, source); err != nil {
		return Rendition{}, fmt.Errorf("read document: %w", err)
	}
	for _, format := range []string{"html", "md"} {
		if err := writer.WriteField("to_formats", format); err != nil {
			return Rendition{}, fmt.Errorf("build upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return Rendition{}, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/convert/file", &body)
	if err != nil {
		return Rendition{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Rendition{}, fmt.Errorf("convert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rendition{}, convertError(resp)
	}

	var payload convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Rendition{}, fmt.Errorf("decode convert response: %w", err)
	}

	if payload.Status != "" && payload.Status != "success" {
		detail := strings.Join(payload.Errors, "; ")
		if detail == "" {
			detail = payload.Status
		}
		return Rendition{}, fmt.Errorf("engine conversion failed: %s", detail)
	}
	if payload.Document == nil {
		return Rendition{}, errors.New("engine returned no document")
	}
	if payload.Document.HTML == "" || payload.Document.Markdown == "" {
		return Rendition{}, errors.New("engine returned incomplete renditions")
	}

	return Rendition{
		HTML:     []byte(payload.Document.HTML),
		Markdown: []byte(payload.Document.Markdown),
	}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	if len(data) == 0 {
		return fmt.Errorf("engine returned %s", http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("engine returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
