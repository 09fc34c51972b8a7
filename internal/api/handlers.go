// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kubedemo/hostpage/internal/log"
)

// indexData is the template payload for the rendered page.
type indexData struct {
	Title    string
	Hostname string
}

// handleIndex renders the host identifier page. The identifier is resolved
// fresh on every request and never cached.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	hostname := s.resolver.Resolve()
	data := indexData{
		Title:    s.cfgHolder.Current().Title,
		Hostname: hostname,
	}

	// Render into a buffer first so a template failure can still produce a
	// clean 500 instead of a half-written page.
	var buf bytes.Buffer
	if err := s.indexTmpl.Execute(&buf, data); err != nil {
		logger.Error().Err(err).Str("event", "index.render_failed").Msg("failed to render index template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error().Err(err).Msg("failed to write index response")
		return
	}

	logger.Debug().
		Str(log.FieldEvent, "index.served").
		Str(log.FieldHostname, hostname).
		Msg("index page served")
}

// hostInfoResponse is the JSON twin of the rendered page.
type hostInfoResponse struct {
	Hostname string `json:"hostname"`
	Version  string `json:"version,omitempty"`
	Uptime   int64  `json:"uptime_seconds"`
}

func (s *Server) handleHostInfo(w http.ResponseWriter, r *http.Request) {
	resp := hostInfoResponse{
		Hostname: s.resolver.Resolve(),
		Version:  s.cfgHolder.Current().Version,
		Uptime:   int64(time.Since(s.startTime).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		l := log.WithComponentFromContext(r.Context(), "api")
		l.Error().Err(err).Msg("failed to encode hostinfo response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.healthManager.ServeHealth(w, r)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.healthManager.ServeReady(w, r)
}
