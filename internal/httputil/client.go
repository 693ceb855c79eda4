// Package httputil holds the shared HTTP client configuration for
// farmpulse's outbound integrations: the weather API and the AI providers.
package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound request. Provider calls get the same
// ceiling from the insight orchestrator, so one slow upstream cannot stall a
// batch longer than this.
const DefaultTimeout = 30 * time.Second

// NewClient returns an HTTP client with the standard outbound timeout.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}
