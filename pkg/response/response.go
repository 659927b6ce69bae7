package response

// ErrorResponse is the body returned to JSON clients on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

func Err(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

var (
	InvalidRequestBodyResponse = Err("Invalid request body")
	InvalidURLResponse         = Err("Invalid URL")
	DangerousURLResponse       = Err("URL contains dangerous content")
	InvalidSlugResponse        = Err("Invalid slug")
	SlugExistsResponse         = Err("Slug already exists")
	NotFoundResponse           = Err("Not found")
	UnauthorizedResponse       = Err("Unauthorized")
	RateLimitedResponse        = Err("Rate limit exceeded")
	ServerErrorResponse        = Err("Internal server error")
)

// SuccessResponse is the body returned on successful mutations. ShortURL
// is set on create, Data carries the affected record and Message is used
// by operations with no record payload.
type SuccessResponse struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	ShortURL string `json:"shortUrl,omitempty"`
	Message  string `json:"message,omitempty"`
}

func Success(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

func Created(data any, shortURL string) SuccessResponse {
	return SuccessResponse{Success: true, Data: data, ShortURL: shortURL}
}

func Message(msg string) SuccessResponse {
	return SuccessResponse{Success: true, Message: msg}
}
