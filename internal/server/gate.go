package server

import (
	"net/http"
	"strings"
)

// AdminPinHeader carries the admin pin during the connection handshake.
const AdminPinHeader = "X-Admin-Pin"

// Gate classifies connections as admin or read-only by comparing the pin
// they present with the configured one.
type Gate struct {
	pin string
}

// NewGate trims the configured pin. An empty pin admits nobody.
func NewGate(pin string) Gate {
	return Gate{pin: strings.TrimSpace(pin)}
}

// IsAdmin reports whether candidate matches the configured pin exactly.
func (g Gate) IsAdmin(candidate string) bool {
	return candidate != "" && candidate == g.pin
}

// FromRequest reads the pin from the handshake header, falling back to the
// pin query parameter.
func (g Gate) FromRequest(r *http.Request) bool {
	candidate := r.Header.Get(AdminPinHeader)
	if candidate == "" {
		candidate = r.URL.Query().Get("pin")
	}
	return g.IsAdmin(candidate)
}
