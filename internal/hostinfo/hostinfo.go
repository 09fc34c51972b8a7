// SPDX-License-Identifier: MIT

// Package hostinfo resolves the identity of the machine or container the
// process is running in.
package hostinfo

import "os"

// Unknown is returned when the platform reports no usable host identifier.
const Unknown = "unknown"

// Resolver resolves the current host identifier. The zero value is not
// usable; construct with New.
type Resolver struct {
	osHostname func() (string, error)
	lookupEnv  func(string) (string, bool)
}

// New returns a Resolver backed by the operating system.
func New() *Resolver {
	return &Resolver{
		osHostname: os.Hostname,
		lookupEnv:  os.LookupEnv,
	}
}

// NewStatic returns a Resolver that always reports name. Useful in tests and
// local multi-replica demos.
func NewStatic(name string) *Resolver {
	return &Resolver{
		osHostname: func() (string, error) { return name, nil },
		lookupEnv:  func(string) (string, bool) { return "", false },
	}
}

// Resolve returns the host identifier, reading it fresh from the platform on
// every call. It prefers the kernel-reported hostname, falls back to the
// HOSTNAME environment variable (set by container runtimes), and finally to
// Unknown. It never returns an empty string.
func (r *Resolver) Resolve() string {
	if name, err := r.osHostname(); err == nil && name != "" {
		return name
	}
	if name, ok := r.lookupEnv("HOSTNAME"); ok && name != "" {
		return name
	}
	return Unknown
}
