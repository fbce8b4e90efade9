package common

// AuthorizationHeaderName is the HTTP header that carries the admin bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed back by the admin server for every request.
const RequestIDHeaderName = "X-Request-ID"
