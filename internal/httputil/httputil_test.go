// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/pkg/types"
)

func TestNewClient(t *testing.T) {
	c := NewClient(types.HTTPConfig{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.Timeout)

	c = NewClient(types.HTTPConfig{})
	assert.Equal(t, defaultTimeout, c.Timeout, "zero timeout falls back to the default")
}

func TestPostJSON(t *testing.T) {
	var gotBody map[string]any
	var gotContentType, gotAPIKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAPIKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer ts.Close()

	header := make(http.Header)
	header.Set("x-api-key", "sk_test")

	status, body, err := PostJSON(context.Background(), ts.Client(), ts.URL,
		map[string]any{"ids": []string{"a", "b"}}, header)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok": true}`, string(body))
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "sk_test", gotAPIKey)
	assert.Equal(t, map[string]any{"ids": []any{"a", "b"}}, gotBody)
}

func TestPostJSONReturnsBodyOnErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "slow down")
	}))
	defer ts.Close()

	status, body, err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]int{"n": 1}, nil)
	require.NoError(t, err, "non-2xx status is not a transport error")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "slow down", string(body))
}

func TestPostJSONUnmarshalablePayload(t *testing.T) {
	_, _, err := PostJSON(context.Background(), http.DefaultClient, "http://unused", make(chan int), nil)
	assert.Error(t, err)
}

func TestPostJSONContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := PostJSON(ctx, ts.Client(), ts.URL, map[string]int{"n": 1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
