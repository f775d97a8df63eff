package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkroom/internal/adjust"
)

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "IMG_0001.CR3", header.Filename)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"file_id":     "abcd1234",
			"filename":    "IMG_0001.CR3",
			"preview_url": "/preview/abcd1234",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	result, err := client.Upload(context.Background(), "IMG_0001.CR3", strings.NewReader("raw-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", result.FileID)
	assert.Equal(t, "IMG_0001.CR3", result.Filename)
}

func TestPreviewEncodesSettings(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/preview/abcd1234", r.URL.Path)
		gotQuery = map[string]string{}
		for key, vals := range r.URL.Query() {
			gotQuery[key] = vals[0]
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff, 0xd9})
	}))
	defer server.Close()

	settings := adjust.Defaults()
	field, _ := adjust.FieldByName("exposure")
	field.Apply(&settings, 1.5)

	client := NewClient(server.URL, nil)
	img, err := client.Preview(context.Background(), "abcd1234", settings)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xd9}, img)

	assert.Equal(t, "1.5", gotQuery["exposure"])
	assert.Equal(t, "0", gotQuery["warmth"])
	assert.Equal(t, "1", gotQuery["contrast"])
	assert.Len(t, gotQuery, len(adjust.Fields))
}

func TestPreviewNonSuccessIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Processing failed: bad raw"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Preview(context.Background(), "abcd1234", adjust.Defaults())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Processing failed")
}

func TestPresetClampsOnIngestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/preset/landscape-lighting", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]float64{
			"exposure": 5.0, // out of range, must arrive clamped
			"warmth":   0.12,
			"contrast": 1.2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	settings, err := client.Preset(context.Background(), "landscape-lighting")
	require.NoError(t, err)
	assert.Equal(t, 2.0, settings.Exposure)
	assert.Equal(t, 0.12, settings.Warmth)
	assert.Equal(t, 1.2, settings.Contrast)
}

func TestStartBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/batch/start", r.URL.Path)

		var payload struct {
			FileIDs        []string           `json:"file_ids"`
			Settings       map[string]float64 `json:"settings"`
			CustomFilename string             `json:"custom_filename"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []string{"a", "b", "c"}, payload.FileIDs)
		assert.Equal(t, "sunset", payload.CustomFilename)
		assert.Equal(t, 1.0, payload.Settings["exposure"])

		_ = json.NewEncoder(w).Encode(map[string]any{"batch_id": "job42", "total": 3})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	handle, err := client.StartBatch(context.Background(), []string{"a", "b", "c"}, adjust.Defaults(), "sunset")
	require.NoError(t, err)
	assert.Equal(t, "job42", handle.BatchID)
	assert.Equal(t, 3, handle.Total)
}

func TestStartBatchRejectsEmpty(t *testing.T) {
	client := NewClient("http://unused", nil)
	_, err := client.StartBatch(context.Background(), nil, adjust.Defaults(), "")
	require.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	deleted := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/files/abcd1234", r.URL.Path)
		deleted = true
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	require.NoError(t, client.DeleteFile(context.Background(), "abcd1234"))
	assert.True(t, deleted)
}
