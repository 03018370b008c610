// Package models holds the shared result and response types.
package models

import "github.com/google/uuid"

// Resolution outcome labels. Used both as Prometheus label values and as
// machine-readable error codes for failing bulk entries.
const (
	OutcomeHit           = "hit"
	OutcomeMiss          = "miss"
	OutcomeInvalid       = "invalid_keyword"
	OutcomeNoResult      = "no_result"
	OutcomeUpstreamError = "upstream_error"
)

// ImageResult is the per-keyword API response shape. A failing keyword
// keeps its slot with a null image_url and an error code, so bulk responses
// always mirror the input order and length.
type ImageResult struct {
	Keyword  string  `json:"keyword"`
	ImageURL *string `json:"image_url"`
	Error    string  `json:"error,omitempty"`
}

// MenuItem is one dish extracted from menu text, with its resolved image.
type MenuItem struct {
	Name        string  `json:"name"`
	Keyword     string  `json:"keyword"`
	Description string  `json:"description,omitempty"`
	Price       string  `json:"price,omitempty"`
	ImageURL    *string `json:"image_url"`
}

// MenuAnalysis is the response of a menu text analysis.
type MenuAnalysis struct {
	ID    uuid.UUID  `json:"id"`
	Items []MenuItem `json:"items"`
}
