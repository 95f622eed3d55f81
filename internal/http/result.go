package httpapi

// Result is the response envelope shared with the mobile clients
// - code: 2000 on success
// - type: 'success' | 'error' | 'warning'
// - message: string
// - result: any
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired uses code=60401 + HTTP 401 so the client interceptor
	// can redirect to the login screen.
	ResultTokenExpired = 60401
	// ResultNoData maps the "no data found" outcome; the clients render an
	// empty state instead of an error dialog.
	ResultNoData = 60404
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func NoData() Result[any] {
	return Result[any]{Code: ResultNoData, Type: "warning", Message: "no data found", Result: nil}
}

func TokenExpired() Result[any] {
	return Result[any]{Code: ResultTokenExpired, Type: "error", Message: "session expired", Result: nil}
}
