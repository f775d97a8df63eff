package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-success response from the render service. The service
// reports failures as {"error": "..."} payloads with a non-2xx status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("render service: status %d", e.Status)
	}
	return fmt.Sprintf("render service: %s (status %d)", e.Message, e.Status)
}

// errorFromResponse drains the body and builds an *Error. Payloads that are
// not the expected JSON shape still produce a usable status-only error.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &Error{Status: resp.StatusCode, Message: payload.Error}
	}
	return &Error{Status: resp.StatusCode}
}
