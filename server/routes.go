package server

func (s *Server) initRoutes() {
	// Public account routes, gated by the API key when it is required
	s.RegisterRouteHandler("POST "+RouteCreateUser, ChainMiddleware(s.CreateUserHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLoginStatus, ChainMiddleware(s.LoginStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteVerifyEmail, ChainMiddleware(s.VerifyEmailHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteResendVerification, ChainMiddleware(s.ResendVerificationHandler(), s.APIMiddleware()...))

	// Routes for the signed in user
	s.RegisterRouteHandler("PATCH "+RouteUpdateUser, ChainMiddleware(s.UpdateUserHandler(), s.SessionMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteUpdatePassword, ChainMiddleware(s.UpdatePasswordHandler(), s.SessionMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.SessionMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteDeleteUser, ChainMiddleware(s.DeleteUserHandler(), s.SessionMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteFunc("/", s.NotFoundHandler())
}
