// Package response defines the JSON envelope used by the cold, dashboard-
// facing endpoints. The redirect hot path deliberately responds with empty
// bodies and never uses it.
package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var MissingSlugResponse = Response{
	Status:  StatusError,
	Error:   "Missing Slug",
	Message: "A non-empty slug is required.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Error:   "Resource Not Found",
	Message: "The requested resource was not found.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Error:   "Server Error",
	Message: "An internal server error occurred. Please try again later.",
}

type Response struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}
