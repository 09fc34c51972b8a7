// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits each client IP to rps requests per second, with a burst of
// the same size. Exceeding clients receive 429 responses.
func RateLimit(rps int) func(http.Handler) http.Handler {
	return httprate.Limit(
		rps,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}
