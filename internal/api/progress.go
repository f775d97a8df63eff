package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProgressEvent is one record from a batch job's server-sent progress stream.
// The final record carries Done plus the per-file result list; a record with
// Error terminates the stream early.
type ProgressEvent struct {
	Current     int          `json:"current"`
	Total       int          `json:"total"`
	CurrentFile string       `json:"current_file"`
	Status      string       `json:"status"`
	Done        bool         `json:"done"`
	Error       string       `json:"error"`
	Results     []FileResult `json:"results"`
}

// FileResult is one file's outcome within a batch. A failed file is recorded
// here with Success false rather than failing the job.
type FileResult struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Success     bool   `json:"success"`
	Error       string `json:"error"`
}

// Terminal reports whether this event ends the stream.
func (e ProgressEvent) Terminal() bool {
	return e.Done || e.Error != ""
}

// FollowProgress consumes the SSE progress channel for one batch job,
// delivering each event on out in arrival order. It returns after a terminal
// event, a transport error, or context cancellation. The channel is closed
// before returning so a pump loop can distinguish "stream over" from "quiet".
func (c *Client) FollowProgress(ctx context.Context, batchID string, out chan<- ProgressEvent) error {
	defer close(out)

	req, err := c.newRequest(ctx, http.MethodGet, "/batch/progress/"+url.PathEscape(batchID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var event ProgressEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			c.logger.Warn("batch %s: skipping malformed progress record: %v", batchID, err)
			continue
		}

		select {
		case out <- event:
		case <-ctx.Done():
			return ctx.Err()
		}

		if event.Terminal() {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// EOF without a terminal event is a transport failure.
	return fmt.Errorf("batch %s: progress stream ended before completion", batchID)
}
