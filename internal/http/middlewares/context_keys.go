package middlewares

const (
	ctxUserIDKey = "auth.userID"
	ctxRoleKey   = "auth.role"
	CtxRequestID = "request_id"
)
