package utils

// Response is the envelope every JSON endpoint writes: an application status
// mirroring the HTTP status, a human-readable message, and a data field that
// is always present (null when there is nothing to carry).
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// NewSuccessResponse wraps data in a 200 envelope.
func NewSuccessResponse(message string, data interface{}) Response {
	return Response{Status: 200, Message: message, Data: data}
}

// NewErrorResponse builds an error envelope. A detail payload, when given,
// becomes the data field.
func NewErrorResponse(status int, message string, detail ...interface{}) Response {
	r := Response{Status: status, Message: message}
	if len(detail) > 0 {
		r.Data = detail[0]
	}
	return r
}
