// ABOUTME: Authentication endpoints: sign-up, log-in, current user, log-out

package api

import (
	"net/http"

	"github.com/pawbase/shelterd/internal/auth"
)

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type logInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logInResponse struct {
	Outcome string `json:"outcome"`
}

type currentUserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpRequest
	if !decodeBody(w, r, &body) {
		return
	}

	role, err := auth.ParseRole(body.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.app.SignUp(r.Context(), body.Username, body.Password, role); err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, currentUserResponse{Username: body.Username, Role: body.Role})
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var body logInRequest
	if !decodeBody(w, r, &body) {
		return
	}

	outcome, err := s.app.Creds.LogIn(r.Context(), body.Username, body.Password)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	// Wrong credentials are an outcome for the UI to render, not an HTTP
	// error: the operation itself succeeded.
	writeJSON(w, http.StatusOK, logInResponse{Outcome: string(outcome)})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.Creds.GetCurrentUser(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, currentUserResponse{Username: user.Username, Role: string(user.Role)})
}

func (s *Server) handleLogOut(w http.ResponseWriter, r *http.Request) {
	s.app.Creds.LogOut()
	writeJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}
