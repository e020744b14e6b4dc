package http

const (
	KEY_HEADER_AUTHORIZATION          = "Authorization"
	KEY_HEADER_CONTENT_TYPE           = "Content-Type"
	KEY_HEADER_REQUEST_ID             = "X-Request-Id"
	KEY_HEADER_SESSION_ID             = "X-Session-Id"
	VALUE_HEADER_APPLICATION_JSON     = "application/json"
	VALUE_HEADER_AUTHORIZATION_BEARER = "Bearer "
)
