package utils

import (
	"errors"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Retry  bool   `json:"retry,omitempty"`
}

// SendError sends an error envelope with an explicit status code.
func SendError(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorResponse{Detail: detail})
}

// RespondError maps a domain error to its HTTP status and envelope. Signature
// mismatches are logged as security events before responding; gateway
// failures carry a retry hint.
func RespondError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrSignatureMismatch) {
		LogSecurityEvent(c.GetString("user_id"), err.Error())
	}
	c.JSON(apperrors.Status(err), ErrorResponse{
		Detail: err.Error(),
		Retry:  apperrors.Retryable(err),
	})
}

// ValidateRequestBody binds the JSON body into obj, replying 400 on failure.
func ValidateRequestBody(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		SendError(c, 400, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
