package http_errors

type ErrorResponse struct {
	Message   string `json:"message"`
	Code      int    `json:"code"`
	ErrorCode string `json:"errorCode,omitempty"` // Machine-readable code, e.g. MONGO_DUPLICATE_KEY
	Details   any    `json:"details,omitempty"`   // Optional field for additional error details
} // @name ErrorResponse

func (e *ErrorResponse) Error() string {
	return e.Message
}

func NewErrorResponse(code int, message string, details ...any) *ErrorResponse {
	if len(details) > 0 {
		return &ErrorResponse{
			Message: message,
			Code:    code,
			Details: details[0], // Take the first detail if provided
		}
	}

	return &ErrorResponse{
		Message: message,
		Code:    code,
	}
}

func BadRequestError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(400, message, details...)
}

func UnauthorizedError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(401, message, details...)
}

func ForbiddenError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(403, message, details...)
}

func NotFoundError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(404, message, details...)
}

func ConflictError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(409, message, details...)
}

func TooManyRequestsError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(429, message, details...)
}

func InternalServerError(message string, details ...any) *ErrorResponse {
	return NewErrorResponse(500, message, details...)
}

func newErrorResponseWithCode(code int, errorCode, message string, details ...any) *ErrorResponse {
	err := NewErrorResponse(code, message, details...)
	err.ErrorCode = errorCode
	return err
}

func BadRequestErrorWithCode(errorCode, message string, details ...any) *ErrorResponse {
	return newErrorResponseWithCode(400, errorCode, message, details...)
}

func NotFoundErrorWithCode(errorCode, message string, details ...any) *ErrorResponse {
	return newErrorResponseWithCode(404, errorCode, message, details...)
}

func ConflictErrorWithCode(errorCode, message string, details ...any) *ErrorResponse {
	return newErrorResponseWithCode(409, errorCode, message, details...)
}

func InternalServerErrorWithCode(errorCode, message string, details ...any) *ErrorResponse {
	return newErrorResponseWithCode(500, errorCode, message, details...)
}

// InvalidCredentialsError is returned by the demo login path. The message is
// deliberately generic: a missing account and a locked account must be
// indistinguishable to the caller.
func InvalidCredentialsError() *ErrorResponse {
	return NewErrorResponse(401, "Invalid credentials or account locked")
}
