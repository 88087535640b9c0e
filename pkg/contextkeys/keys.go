package contextkeys

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	UserInfoKey  contextKey = "UserInfo"
	AuthTokenKey contextKey = "AuthToken"
	RequestIDKey contextKey = "RequestID"
)
