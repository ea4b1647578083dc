package handler

import "github.com/erp/backoffice/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// MessageResponse represents a success response carrying only a message
// @Description Success response without data
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Department deleted successfully"`
}

// LookupOption is one entry of a form dropdown
// @Description Enumerated value with its localized label
type LookupOption struct {
	Value string `json:"value" example:"asset"`
	Label string `json:"label" example:"Asset"`
}
