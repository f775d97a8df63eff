package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"darkroom/internal/adjust"
	"darkroom/internal/logging"
)

// Client talks to the remote RAW render service. All calls take a context;
// the client itself imposes no deadline, so a hung render simply never
// resolves and its result is superseded by the next one.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger

	// Deadline for short request/response calls. Previews, downloads, and
	// the progress stream are exempt: they are unbounded by nature.
	requestTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRequestTimeout bounds the short JSON calls (upload receipt, presets,
// batch start, listings). Zero means no deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

func NewClient(baseURL string, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadResult is the service's receipt for one ingested file.
type UploadResult struct {
	FileID     string `json:"file_id"`
	Filename   string `json:"filename"`
	PreviewURL string `json:"preview_url"`
}

// RemoteFile is one entry from the service's file listing.
type RemoteFile struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// BatchHandle identifies a started batch job.
type BatchHandle struct {
	BatchID string `json:"batch_id"`
	Total   int    `json:"total"`
}

// BatchSummary is the final per-file result listing for a completed batch.
type BatchSummary struct {
	Results      []FileResult `json:"results"`
	SuccessCount int          `json:"success_count"`
	Total        int          `json:"total"`
}

// Upload submits raw file bytes and returns the server-assigned identity.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.doJSON(req, &result); err != nil {
		return UploadResult{}, err
	}
	c.logger.Info("uploaded %s as %s", filename, result.FileID)
	return result, nil
}

// Preview renders a file under the given settings and returns JPEG bytes.
// Any non-success status is a fetch failure; the caller drops the result.
func (c *Client) Preview(ctx context.Context, fileID string, settings adjust.Settings) ([]byte, error) {
	path := "/preview/" + url.PathEscape(fileID) + "?" + settings.Query().Encode()
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}
	return io.ReadAll(resp.Body)
}

// Preset fetches a named settings vector. Each field is clamped on ingestion;
// the shape is otherwise trusted.
func (c *Client) Preset(ctx context.Context, name string) (adjust.Settings, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/preset/"+url.PathEscape(name), nil)
	if err != nil {
		return adjust.Settings{}, err
	}

	var settings adjust.Settings
	if err := c.doJSON(req, &settings); err != nil {
		return adjust.Settings{}, err
	}
	return settings.Clamped(), nil
}

// StartBatch creates an export job for the given files.
func (c *Client) StartBatch(ctx context.Context, fileIDs []string, settings adjust.Settings, customFilename string) (BatchHandle, error) {
	if len(fileIDs) == 0 {
		return BatchHandle{}, fmt.Errorf("start batch: no files")
	}

	payload := struct {
		FileIDs        []string        `json:"file_ids"`
		Settings       adjust.Settings `json:"settings"`
		CustomFilename string          `json:"custom_filename,omitempty"`
	}{fileIDs, settings.Clamped(), customFilename}

	body, err := json.Marshal(payload)
	if err != nil {
		return BatchHandle{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/batch/start", bytes.NewReader(body))
	if err != nil {
		return BatchHandle{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var handle BatchHandle
	if err := c.doJSON(req, &handle); err != nil {
		return BatchHandle{}, err
	}
	c.logger.Info("batch %s started for %d files", handle.BatchID, handle.Total)
	return handle, nil
}

// BatchResults fetches the final summary for a completed batch.
func (c *Client) BatchResults(ctx context.Context, batchID string) (BatchSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/batch/download/"+url.PathEscape(batchID), nil)
	if err != nil {
		return BatchSummary{}, err
	}

	var summary BatchSummary
	if err := c.doJSON(req, &summary); err != nil {
		return BatchSummary{}, err
	}
	return summary, nil
}

// ListFiles returns the files the service currently holds.
func (c *Client) ListFiles(ctx context.Context) ([]RemoteFile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/files", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Files []RemoteFile `json:"files"`
	}
	if err := c.doJSON(req, &payload); err != nil {
		return nil, err
	}
	return payload.Files, nil
}

// DeleteFile requests removal of an uploaded file. Callers treat this as
// best-effort: registry state moves on regardless of the outcome.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

// Download streams a processed file into w. The path comes from a batch
// result's download URL and is resolved against the service base.
func (c *Client) Download(ctx context.Context, downloadPath string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, downloadPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	if c.requestTimeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), c.requestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
