package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-account-service/accounts"
	"github.com/jrsteele09/go-account-service/internal/config"
	"github.com/jrsteele09/go-account-service/ratelimit"
	"github.com/jrsteele09/go-account-service/token"
	"github.com/rs/zerolog/log"
)

// TokenVerifier checks session tokens presented by callers.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type Server struct {
	env      string // Environment ("DEV", "PROD")
	mux      *http.ServeMux
	handler  http.HandlerFunc
	routes   []string
	config   config.Config
	accounts *accounts.Service
	tokens   TokenVerifier
	limiter  ratelimit.Limiter // nil when rate limiting is disabled
}

func New(config config.Config, accountService *accounts.Service, tokens TokenVerifier, limiter ratelimit.Limiter) (*Server, error) {
	if accountService == nil {
		return nil, errors.New("[Server New] account service is required")
	}
	if tokens == nil {
		return nil, errors.New("[Server New] token verifier is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		accounts: accountService,
		tokens:   tokens,
		limiter:  limiter,
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.GlobalMiddleware()...)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) isProduction() bool {
	return s.env == config.ProdEnv
}

func (s *Server) logRoutes() {
	if s.env != config.DevEnv {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%s] %s", colourise(methodColor(method), fmt.Sprintf(" %-7s", method)), path)
}
