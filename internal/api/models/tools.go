package models

import "github.com/ntpc-opendata/ntpc-opendata/internal/tools"

// ToolList is the response of GET /v1/tools.
type ToolList struct {
	Tools []tools.Descriptor `json:"tools"`
	Count int                `json:"count"`
}
