// Package httpapi exposes a CommandExecutor over HTTP: one route per
// Command, a JSON envelope shared by every handler, and the two
// metrics surfaces (the deterministic text contract and, optionally,
// a Prometheus registry scrape).
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/riftcache/riftcache/cache"
	"github.com/riftcache/riftcache/executor"
)

// Server wires a CommandExecutor to net/http's pattern-based ServeMux.
type Server struct {
	executor    *executor.CommandExecutor
	promHandler http.Handler
}

// New builds a Server. promHandler may be nil; when set it is mounted
// at /metrics/prom alongside the mandatory /metrics text endpoint.
func New(exec *executor.CommandExecutor, promHandler http.Handler) *Server {
	return &Server{executor: exec, promHandler: promHandler}
}

// Handler builds the ServeMux for this server. Routing follows the
// original JSON bridge's path layout, completed for every Command
// rather than left as a handful of TODOs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /keys/{key}", s.handleGetKey)
	mux.HandleFunc("POST /keys/{key}", s.handleSetKey)
	mux.HandleFunc("DELETE /keys/{key}", s.handleDeleteKey)
	mux.HandleFunc("GET /keys/{key}/ttl", s.handleTtl)
	mux.HandleFunc("GET /keys/{key}/info", s.handleInfo)
	mux.HandleFunc("POST /keys/{key}/expire", s.handleExpire)
	mux.HandleFunc("POST /keys/{key}/persist", s.handlePersist)
	mux.HandleFunc("POST /keys/{key}/parent", s.handleSetParent)
	mux.HandleFunc("GET /keys/{key}/children", s.handleChildren)

	mux.HandleFunc("GET /keys", s.handleListKeys)
	mux.HandleFunc("DELETE /keys", s.handleDeleteMulti)
	mux.HandleFunc("POST /keys/exists", s.handleExists)

	mux.HandleFunc("POST /ping", s.handlePing)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("POST /flush", s.handleFlush)

	if s.promHandler != nil {
		mux.Handle("GET /metrics/prom", s.promHandler)
	}

	return mux
}

// ListenAndServe starts the HTTP server on addr with a read-header
// timeout to guard against slowloris-style connections.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdGet, Key: key}))
}

type setKeyRequest struct {
	Value  string  `json:"value"`
	Ttl    *uint64 `json:"ttl"`
	Parent *string `json:"parent"`
	Nx     bool    `json:"nx"`
	Xx     bool    `json:"xx"`
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req setKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	opts := cache.SetOptions{Parent: req.Parent, Nx: req.Nx, Xx: req.Xx}
	if req.Ttl != nil {
		d := time.Duration(*req.Ttl) * time.Second
		opts.Ttl = &d
	}

	cmd := executor.Command{
		Type:    executor.CmdSet,
		Key:     key,
		Value:   cache.NewString(req.Value),
		Options: opts,
	}
	writeResponse(w, s.executor.Execute(cmd))
}

func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdDel, Keys: []string{key}}))
}

func (s *Server) handleTtl(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdTtl, Key: key}))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdGetInfo, Key: key}))
}

type expireRequest struct {
	Seconds uint64 `json:"seconds"`
}

func (s *Server) handleExpire(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var req expireRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdExpire, Key: key, Seconds: req.Seconds}))
}

func (s *Server) handlePersist(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdPersist, Key: key}))
}

type setParentRequest struct {
	Parent string `json:"parent"`
}

func (s *Server) handleSetParent(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var req setParentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdSetParent, Key: key, Parent: req.Parent}))
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	depth := 0
	if v := r.URL.Query().Get("depth"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			depth = parsed
		}
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdGetChildren, Parent: key, Depth: depth}))
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "*"
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdListKeys, Pattern: pattern, Limit: limit}))
}

type multiKeyRequest struct {
	Keys []string `json:"keys"`
}

func (s *Server) handleDeleteMulti(w http.ResponseWriter, r *http.Request) {
	var req multiKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdDel, Keys: req.Keys}))
}

func (s *Server) handleExists(w http.ResponseWriter, r *http.Request) {
	var req multiKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdExists, Keys: req.Keys}))
}

type pingRequest struct {
	Message string `json:"message"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	var req pingRequest
	if r.Body != nil {
		_ = decodeJSON(r, &req)
	}
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdPing, Message: req.Message}))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdStats}))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	resp := s.executor.Execute(executor.Command{Type: executor.CmdRenderMetrics})
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, _ = io.WriteString(w, resp.Value)
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.executor.Execute(executor.Command{Type: executor.CmdFlushAll}))
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}
