package server

import (
	"github.com/gin-gonic/gin"
)

// Error codes returned in JSON error bodies.
const (
	CodeInvalidForm    = "INVALID_FORM"
	CodeMissingFile    = "MISSING_FILE"
	CodeInvalidNow     = "INVALID_NOW"
	CodeInvalidLimit   = "INVALID_LIMIT"
	CodeUploadTooLarge = "UPLOAD_TOO_LARGE"
	CodeTooManyRows    = "TOO_MANY_ROWS"
	CodeStoreDisabled  = "STORE_DISABLED"
	CodeRunNotFound    = "RUN_NOT_FOUND"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}
