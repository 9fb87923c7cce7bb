package dto

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a newest-first listing.
// NextPage and PreviousPage are null at the ends.
type PaginationInfo struct {
	CurrentPage  int   `json:"currentPage" example:"1"`
	TotalPages   int   `json:"totalPages" example:"5"`
	PageSize     int   `json:"pageSize" example:"10"`
	TotalItems   int64 `json:"totalItems" example:"42"`
	NextPage     *int  `json:"nextPage" example:"2"`
	PreviousPage *int  `json:"previousPage"`
}

// MessageResponse is returned by endpoints with nothing else to report
type MessageResponse struct {
	Message string `json:"message"`
}
