package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/article-service/internal/transport/http/middleware"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: middleware.GetTraceID(c),
	}
}

const successMessage = "success"

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse wraps a successful payload.
type DataResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func success[T any](data T) DataResponse[T] {
	return DataResponse[T]{Message: successMessage, Data: data}
}

// ArticleCreateRequest defines the payload for creating an article.
type ArticleCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ArticleUpdateRequest defines the payload for a partial update. Blank fields are ignored.
type ArticleUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ArticleCreated carries the identifier of a newly created article.
type ArticleCreated struct {
	ID int64 `json:"id"`
}

// ArticlePayload describes an article in API responses.
type ArticlePayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	WriterID int64  `json:"writer_id"`
}

// StatusResponse is returned by the root endpoint.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the result of each dependency check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
