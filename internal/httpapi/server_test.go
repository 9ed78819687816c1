package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riftcache/riftcache/cache"
	"github.com/riftcache/riftcache/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	c := cache.New(cache.DefaultConfig())
	return New(executor.New(c), nil)
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*http.Response, ApiResponse) {
	t.Helper()
	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	res := rec.Result()

	var parsed ApiResponse
	if res.Header.Get("Content-Type") == "application/json" || strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&parsed))
	}
	return res, parsed
}

func TestServer_SetGetDeleteKey(t *testing.T) {
	s := newTestServer()

	res, parsed := doRequest(t, s, http.MethodPost, "/keys/a", `{"value":"1"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, parsed.Success)

	res, parsed = doRequest(t, s, http.MethodGet, "/keys/a", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, parsed.Success)
	assert.Equal(t, "1", parsed.Data)

	res, parsed = doRequest(t, s, http.MethodDelete, "/keys/a", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, parsed.Success)

	_, parsed = doRequest(t, s, http.MethodGet, "/keys/a", "")
	assert.False(t, parsed.Success)
}

func TestServer_TtlExpirePersist(t *testing.T) {
	s := newTestServer()
	doRequest(t, s, http.MethodPost, "/keys/k", `{"value":"v"}`)

	_, parsed := doRequest(t, s, http.MethodPost, "/keys/k/expire", `{"seconds":60}`)
	assert.True(t, parsed.Success)

	_, parsed = doRequest(t, s, http.MethodGet, "/keys/k/ttl", "")
	assert.True(t, parsed.Success)

	_, parsed = doRequest(t, s, http.MethodPost, "/keys/k/persist", "")
	assert.True(t, parsed.Success)
}

func TestServer_ParentAndChildren(t *testing.T) {
	s := newTestServer()
	doRequest(t, s, http.MethodPost, "/keys/parent", `{"value":"p"}`)
	doRequest(t, s, http.MethodPost, "/keys/child", `{"value":"c"}`)

	res, parsed := doRequest(t, s, http.MethodPost, "/keys/child/parent", `{"parent":"parent"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, parsed.Success)

	_, parsed = doRequest(t, s, http.MethodGet, "/keys/parent/children", "")
	assert.True(t, parsed.Success)
}

func TestServer_ListAndBulkDelete(t *testing.T) {
	s := newTestServer()
	doRequest(t, s, http.MethodPost, "/keys/user:1", `{"value":"a"}`)
	doRequest(t, s, http.MethodPost, "/keys/user:2", `{"value":"b"}`)

	_, parsed := doRequest(t, s, http.MethodGet, "/keys?pattern=user:*&limit=10", "")
	assert.True(t, parsed.Success)

	_, parsed = doRequest(t, s, http.MethodDelete, "/keys", `{"keys":["user:1","user:2"]}`)
	assert.True(t, parsed.Success)
	assert.EqualValues(t, 2, parsed.Data)
}

func TestServer_ExistsAndPing(t *testing.T) {
	s := newTestServer()
	doRequest(t, s, http.MethodPost, "/keys/a", `{"value":"1"}`)

	_, parsed := doRequest(t, s, http.MethodPost, "/keys/exists", `{"keys":["a","missing"]}`)
	assert.True(t, parsed.Success)
	assert.EqualValues(t, 1, parsed.Data)

	_, parsed = doRequest(t, s, http.MethodPost, "/ping", `{"message":"hello"}`)
	assert.True(t, parsed.Success)
	assert.Equal(t, "hello", parsed.Data)
}

func TestServer_StatsMetricsFlush(t *testing.T) {
	s := newTestServer()
	doRequest(t, s, http.MethodPost, "/keys/a", `{"value":"1"}`)

	_, parsed := doRequest(t, s, http.MethodGet, "/stats", "")
	assert.True(t, parsed.Success)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "cache_hits_total")

	_, parsed = doRequest(t, s, http.MethodPost, "/flush", "")
	assert.True(t, parsed.Success)
}

func TestServer_SetNxRejectsSecondWrite(t *testing.T) {
	s := newTestServer()
	_, parsed := doRequest(t, s, http.MethodPost, "/keys/a", `{"value":"1","nx":true}`)
	assert.True(t, parsed.Success)

	res, parsed := doRequest(t, s, http.MethodPost, "/keys/a", `{"value":"2","nx":true}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, parsed.Success)
}
