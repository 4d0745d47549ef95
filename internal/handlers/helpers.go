package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/middleware"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// IDResponse is returned when a resource is created.
type IDResponse struct {
	ID uint `json:"id"`
}

// SuccessResponse is returned by updates and deletes.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// getUserID extracts the logged-in user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// bindJSON decodes the request body into req. Decoding and validation
// failures become ErrInvalidInput.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

func respondSuccess(c *gin.Context, status int) {
	c.JSON(status, SuccessResponse{Success: true})
}

// respondWithError writes a consistent JSON error response through the same
// renderer the ErrorHandler middleware uses.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}
