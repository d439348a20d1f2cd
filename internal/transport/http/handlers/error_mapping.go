package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/article-service/internal/core/domain"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// articleErrorCases translates the domain taxonomy. NotFound and Unauthorized stay distinct.
var articleErrorCases = []ErrorCase{
	{Err: domain.ErrNotFound, Status: http.StatusNotFound, Message: "Article not found"},
	{Err: domain.ErrUnauthorized, Status: http.StatusUnauthorized, Message: "Authorization failed"},
	{Err: domain.ErrInvalid, Status: http.StatusBadRequest, Message: "Validation failed"},
	{Err: domain.ErrDuplicated, Status: http.StatusBadRequest, Message: "Duplicated Article"},
	{Err: domain.ErrStorageFailure, Status: http.StatusBadRequest, Message: "Database error"},
	{Err: domain.ErrUnexpected, Status: http.StatusInternalServerError, Message: "Unexpected error"},
}

const (
	unexpectedStatus  = http.StatusInternalServerError
	unexpectedMessage = "Unexpected error"
)

// RespondWithMappedError resolves the provided error against known cases or falls back to a generic response.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
