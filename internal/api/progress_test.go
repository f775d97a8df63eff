package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseServer(t *testing.T, records ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/batch/progress/job42", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, rec := range records {
			fmt.Fprintf(w, "data: %s\n\n", rec)
			flusher.Flush()
		}
	}))
}

func collect(t *testing.T, client *Client, batchID string) ([]ProgressEvent, error) {
	t.Helper()
	out := make(chan ProgressEvent, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- client.FollowProgress(context.Background(), batchID, out)
	}()

	var events []ProgressEvent
	for event := range out {
		events = append(events, event)
	}
	return events, <-errCh
}

func TestFollowProgressToCompletion(t *testing.T) {
	server := sseServer(t,
		`{"current":1,"total":3,"current_file":"a.cr3","status":"processing"}`,
		`{"current":2,"total":3,"current_file":"b.cr3","status":"processing"}`,
		`{"current":3,"total":3,"done":true,"status":"complete","results":[{"filename":"a.jpg","success":true},{"filename":"b.jpg","success":true},{"filename":"c.cr3","success":false,"error":"decode"}]}`,
	)
	defer server.Close()

	client := NewClient(server.URL, nil)
	events, err := collect(t, client, "job42")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, 1, events[0].Current)
	assert.Equal(t, "a.cr3", events[0].CurrentFile)
	assert.False(t, events[0].Terminal())

	last := events[2]
	assert.True(t, last.Done)
	assert.True(t, last.Terminal())
	require.Len(t, last.Results, 3)
	assert.True(t, last.Results[0].Success)
	assert.False(t, last.Results[2].Success)
}

func TestFollowProgressInBandErrorTerminates(t *testing.T) {
	server := sseServer(t,
		`{"current":1,"total":3,"status":"processing"}`,
		`{"error":"Batch not found"}`,
		`{"current":2,"total":3,"status":"processing"}`, // must never be delivered
	)
	defer server.Close()

	client := NewClient(server.URL, nil)
	events, err := collect(t, client, "job42")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Batch not found", events[1].Error)
	assert.True(t, events[1].Terminal())
}

func TestFollowProgressEarlyEOFIsFailure(t *testing.T) {
	server := sseServer(t,
		`{"current":1,"total":3,"status":"processing"}`,
	)
	defer server.Close()

	client := NewClient(server.URL, nil)
	events, err := collect(t, client, "job42")
	require.Error(t, err)
	require.Len(t, events, 1)
}

// Cancelling the context unblocks a follower stuck on a stream that never
// terminates, e.g. when the user quits the progress UI mid-export.
func TestFollowProgressStopsOnContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprintf(w, "data: %s\n\n", `{"current":1,"total":3,"status":"processing"}`)
		flusher.Flush()
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan ProgressEvent, 16)
	errCh := make(chan error, 1)
	client := NewClient(server.URL, nil)
	go func() {
		errCh <- client.FollowProgress(ctx, "job42", out)
	}()

	<-out
	cancel()
	require.Error(t, <-errCh)
}

func TestFollowProgressSkipsMalformedRecords(t *testing.T) {
	server := sseServer(t,
		`{not json}`,
		`{"current":1,"total":1,"done":true,"results":[{"filename":"a.jpg","success":true}]}`,
	)
	defer server.Close()

	client := NewClient(server.URL, nil)
	events, err := collect(t, client, "job42")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Done)
}
