package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mcgareyconsulting/milehigh-sub000/internal/types"
)

// handleLogin authenticates the shop operator and issues a JWT.
// The credential check is deliberately symmetric: an unknown name and a bad
// password produce the same response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Name and Password are required")
		return
	}

	if req.Name != s.operator.Name || !s.operator.VerifyPassword(req.Password) {
		s.errorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.jwtService.GenerateToken(req.Name)
	if err != nil {
		log.Printf("[auth] failed to generate token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{
		Operator: req.Name,
		Token:    token,
	})
}
