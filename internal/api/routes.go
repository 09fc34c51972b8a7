// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/kubedemo/hostpage/internal/api/middleware"
)

func (s *Server) routes() http.Handler {
	cfg := s.cfgHolder.Current()

	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            len(cfg.AllowedOrigins) > 0,
		AllowedOrigins:        cfg.AllowedOrigins,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        cfg.TracingService,
		EnableLogging:         true,
		RateLimitRPS:          cfg.RateLimitRPS,
	})

	r.Get("/", s.handleIndex)
	r.Get("/api/hostinfo", s.handleHostInfo)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	return r
}
