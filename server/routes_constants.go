package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Account Routes - API key guarded
	RouteCreateUser         = "/users/create"
	RouteLogin              = "/users/login"
	RouteLoginStatus        = "/users/login-status"
	RouteVerifyEmail        = "/users/verify/{token}"
	RouteResendVerification = "/users/verify/resend"

	// Account Routes - session guarded
	RouteUpdateUser     = "/users/update"
	RouteUpdatePassword = "/users/update-password"
	RouteProfile        = "/users/profile"
	RouteDeleteUser     = "/users/delete"

	RouteLogout = "/users/logout"
	RouteHealth = "/healthz"
)

const (
	sessionCookieName = "jwt"
	apiKeyHeader      = "x-api-key"
)
