// SPDX-License-Identifier: MIT

// Package api implements the HTTP surface of the hostpage service: the
// rendered host identifier page, its JSON twin and the probe endpoints.
package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/kubedemo/hostpage/internal/config"
	"github.com/kubedemo/hostpage/internal/health"
	"github.com/kubedemo/hostpage/internal/hostinfo"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// Server holds the handler dependencies. All request handling is stateless;
// the only cross-request state is the immutable template and the config
// snapshot holder.
type Server struct {
	cfgHolder     *config.Holder
	resolver      *hostinfo.Resolver
	healthManager *health.Manager
	indexTmpl     *template.Template
	startTime     time.Time
}

// ServerOption customises a Server during construction.
type ServerOption func(*Server)

// WithResolver overrides the host identifier resolver.
func WithResolver(r *hostinfo.Resolver) ServerOption {
	return func(s *Server) { s.resolver = r }
}

// New creates and initializes a new HTTP server.
func New(cfgHolder *config.Holder, opts ...ServerOption) (*Server, error) {
	if cfgHolder == nil {
		return nil, fmt.Errorf("config holder is required")
	}

	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	s := &Server{
		cfgHolder:     cfgHolder,
		resolver:      hostinfo.New(),
		healthManager: health.NewManager(cfgHolder.Current().Version),
		indexTmpl:     tmpl,
		startTime:     time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// HealthManager exposes the health manager so callers can register checkers.
func (s *Server) HealthManager() *health.Manager {
	return s.healthManager
}
