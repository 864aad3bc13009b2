// Package httpx writes JSON and RFC 7807 problem responses for the
// dashboard API endpoints.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ProblemTypeBase prefixes the type URI of every problem response.
const ProblemTypeBase = "https://lexquote.app/problems/"

// ProblemDetail represents RFC 7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, "application/json", status, data)
}

// Problem sends an RFC 7807 problem response. The type URI is derived from
// the title, e.g. "Bad Gateway" becomes ProblemTypeBase + "bad-gateway".
func Problem(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, "application/problem+json", status, ProblemDetail{
		Type:   ProblemTypeBase + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func writeJSON(w http.ResponseWriter, contentType string, status int, data any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
