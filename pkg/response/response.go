// Package response shapes the uniform JSON envelope every endpoint
// returns: {success, message, code, data, errors}.
package response

import "github.com/gofiber/fiber/v2"

// Stable machine-readable codes carried in the envelope alongside the
// HTTP status.
const (
	CodeResourceCreated    = "CRE_RESOURCE_CREATED"
	CodeDataRetrieved      = "REQ_DATA_RETRIEVED"
	CodeOperationComplete  = "PRO_OPERATION_COMPLETE"
	CodeNotFound           = "RES_NOT_FOUND"
	CodeConflict           = "RES_CONFLICT"
	CodeInvalidFormat      = "VAL_INVALID_FORMAT"
	CodeMissingField       = "VAL_MISSING_FIELD"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeInvalidSignature   = "PAY_INVALID_SIGNATURE"
	CodeGatewayError       = "PAY_GATEWAY_ERROR"
	CodeInternalError      = "SYS_INTERNAL_ERROR"
)

// Envelope is the response body shared by all endpoints.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success writes a successful envelope with the given HTTP status.
func Success(c *fiber.Ctx, status int, code, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Code:    code,
		Data:    data,
	})
}

// Error writes a failure envelope with the given HTTP status. errs carries
// optional detail such as per-field validation messages; internal error
// text never goes there.
func Error(c *fiber.Ctx, status int, code, message string, errs interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Code:    code,
		Errors:  errs,
	})
}
