package common

// AuthHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id so client-side
// logs can be matched with server logs.
const RequestIDHeaderName = "X-Request-Id"

// Names of the two persisted client-state slots. Both are cleared together
// on logout or session invalidation.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)
