package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aras-dashboard/pkg/contextkeys"
	apperrors "aras-dashboard/pkg/errors"
)

func TestFetchOverview_ForwardsTokenAndReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/dashboard/overview", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"kpis":{"calls":{"started":{"today":5}}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, zap.NewNop())
	ctx := context.WithValue(context.Background(), contextkeys.AuthTokenKey, "tok-123")

	raw, err := c.FetchOverview(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kpis":{"calls":{"started":{"today":5}}}}`, string(raw))
}

func TestFetchOverview_Non2xxIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`maintenance`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, zap.NewNop()).FetchOverview(context.Background())

	upErr, ok := apperrors.IsUpstreamStatus(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, upErr.Status)
	assert.Equal(t, "maintenance", upErr.Body)
	assert.False(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
}

func TestFetchOverview_NetworkErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second, zap.NewNop()).FetchOverview(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	_, isStatus := apperrors.IsUpstreamStatus(err)
	assert.False(t, isStatus)
}

func TestDo_SendsJSONAndDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/tasks/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, map[string]any{"completed": true}, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","completed":true}`))
	}))
	defer srv.Close()

	data, err := New(srv.URL, time.Second, zap.NewNop()).Do(context.Background(), "patch", "/api/tasks/42", map[string]any{"completed": true})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "42", "completed": true}, data)
}

func TestDo_EmptyAndNonJSONBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/empty" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()
	c := New(srv.URL, time.Second, zap.NewNop())

	data, err := c.Do(context.Background(), http.MethodPost, "/api/empty", nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = c.Do(context.Background(), http.MethodPost, "/api/text", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", data)
}

func TestDo_RejectsForeignEndpointsBeforeNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits++ }))
	defer srv.Close()
	c := New(srv.URL, time.Second, zap.NewNop())

	for _, endpoint := range []string{
		"https://evil.example/api/tasks",
		"//evil.example/api/tasks",
		"/admin/users",
		"/api/../admin",
		"/api/tasks?x=1 2",
		"",
	} {
		_, err := c.Do(context.Background(), http.MethodPost, endpoint, nil)
		assert.ErrorIs(t, err, apperrors.ErrEndpointNotAllowed, endpoint)
	}

	_, err := c.Do(context.Background(), "TRACE", "/api/tasks", nil)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Zero(t, hits)
}
