package server

import (
	"net/http"

	"github.com/jrsteele09/go-account-service/accounts"
	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
)

type userResponse struct {
	Message string            `json:"message"`
	User    accounts.Identity `json:"user"`
}

type loginStatusResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

// CreateUserHandler registers an account and signs the new user in.
func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in accounts.RegisterInput
		if err := s.decodeJSON(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		session, err := s.accounts.Register(r.Context(), in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.setSessionCookie(w, session.Token)
		writeJSON(w, http.StatusCreated, userResponse{Message: accounts.MsgAccountCreated, User: session.Identity})
	}
}

// LoginHandler authenticates with a JSON body on GET, matching the existing client contract.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in accounts.LoginInput
		if err := s.decodeJSON(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		session, err := s.accounts.Login(r.Context(), in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.setSessionCookie(w, session.Token)
		writeJSON(w, http.StatusOK, userResponse{Message: accounts.MsgLoginSuccess, User: session.Identity})
	}
}

// LoginStatusHandler reports whether the caller holds a valid session. It never fails on a bad token.
func (s *Server) LoginStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loggedIn := false
		if tok := sessionToken(r); tok != "" {
			_, err := s.tokens.Verify(tok)
			loggedIn = err == nil
		}
		writeJSON(w, http.StatusOK, loginStatusResponse{LoggedIn: loggedIn})
	}
}

func (s *Server) VerifyEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.accounts.VerifyEmail(r.Context(), r.PathValue("token")); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: accounts.MsgEmailVerified})
	}
}

func (s *Server) ResendVerificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in accounts.ResendVerificationInput
		if err := s.decodeJSON(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.accounts.ResendVerification(r.Context(), in); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: accounts.MsgVerificationSent})
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.Unauthorized("Unauthorized"))
			return
		}
		identity, err := s.accounts.Profile(r.Context(), userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, identity)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.Unauthorized("Unauthorized"))
			return
		}
		var in accounts.UpdateProfileInput
		if err := s.decodeJSON(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		identity, err := s.accounts.UpdateProfile(r.Context(), userID, in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{Message: accounts.MsgUserUpdated, User: *identity})
	}
}

func (s *Server) UpdatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.Unauthorized("Unauthorized"))
			return
		}
		var in accounts.ChangePasswordInput
		if err := s.decodeJSON(r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.accounts.ChangePassword(r.Context(), userID, in); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: accounts.MsgPasswordUpdated})
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.Unauthorized("Unauthorized"))
			return
		}
		if err := s.accounts.DeleteAccount(r.Context(), userID); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, messageResponse{Message: accounts.MsgAccountDeleted})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, messageResponse{Message: accounts.MsgLoggedOut})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotFoundHandler handles 404 errors
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apperrors.NotFound("Not Found"))
	}
}
