package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient returns the shared client used for outbound calls such as
// the notifications webhook.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}
