// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldPath      = "path"
	FieldMethod    = "method"
	FieldStatus    = "status"
	FieldHostname  = "hostname"
)
