// Package dto defines request/response wire shapes for API v1.
package dto

// IDResponse returns the id of a created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
