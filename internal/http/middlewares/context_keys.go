package middlewares

// gin context keys
const (
	CtxRequestID = "request_id"
	CtxCSRFToken = "csrf_token"
	CtxSessionID = "session_id"
)
