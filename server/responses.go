package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-account-service/internal/config"
	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/internal/sanitize"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

// writeError is the single place failures become HTTP responses. Unexpected failures are logged
// and collapsed to a generic 500; outside production the cause and its stack are echoed back.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !apperrors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}

	body := errorResponse{Message: appErr.Message}
	if appErr.Kind == apperrors.KindInternal {
		log.Error().Err(appErr.Err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		if !s.isProduction() && appErr.Err != nil {
			body.Error = appErr.Err.Error()
			body.Stack = fmt.Sprintf("%+v", appErr.Err)
		}
	}
	writeJSON(w, appErr.Status, body)
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched so the
// operation's own field checks report what is missing. With sanitization enabled, operator
// shaped keys are rejected and dst is cleaned when it knows how.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.Validation("Unable to read request body").WithCause(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	sanitizing := s.config.GetEnableSanitization()
	if sanitizing {
		if err := sanitize.CheckKeys(body); err != nil {
			return apperrors.Validation("Invalid request body").WithCause(err)
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Validation("Invalid request body").WithCause(err)
	}
	if sanitizer, ok := dst.(interface{ Sanitize() }); ok && sanitizing {
		sanitizer.Sanitize()
	}
	return nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.config.GetEnv() == config.ProdEnv, // Only secure in production
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.GetEnv() == config.ProdEnv,
		SameSite: http.SameSiteLaxMode,
	})
}
