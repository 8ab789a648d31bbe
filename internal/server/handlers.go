package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/abc-assistant/assistant/internal/auth"
	"github.com/abc-assistant/assistant/internal/database"
	"github.com/abc-assistant/assistant/internal/language"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type newPasswordRequest struct {
	Username        string `json:"username"        validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Session         string `json:"session"         validate:"required"`
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	State         auth.State     `json:"state,omitempty"`
	User          *auth.UserInfo `json:"user,omitempty"`
}

type interactionsResponse struct {
	Language     string                  `json:"language,omitempty"`
	Interactions []*database.Interaction `json:"interactions"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.log.WarnContext(r.Context(), "Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, auth.SignInResult{Error: auth.ErrMissingCredentials.Error()})
		return
	}

	s.writeSignIn(w, s.gate.SignIn(r.Context(), req.Username, req.Password))
}

func (s *Server) handleNewPassword(w http.ResponseWriter, r *http.Request) {
	var req newPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "username, newPassword, confirmPassword and session are required")
		return
	}

	s.writeSignIn(w, s.gate.SetNewPassword(r.Context(), req.Username, req.NewPassword, req.ConfirmPassword, req.Session))
}

// writeSignIn maps a sign-in outcome to a status: 200 on success, 202 when a
// new password is required, 401 otherwise.
func (s *Server) writeSignIn(w http.ResponseWriter, res auth.SignInResult) {
	switch {
	case res.Success:
		writeJSON(w, http.StatusOK, res)
	case res.ChallengeName != "" && res.Error == "":
		writeJSON(w, http.StatusAccepted, res)
	case res.ChallengeName != "":
		writeJSON(w, http.StatusBadRequest, res)
	default:
		writeJSON(w, http.StatusUnauthorized, res)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.SignOut(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSession reports the gate state to the holder of the admin token.
// Other callers only learn that they are not signed in.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.authorized(ctx, bearerToken(r)) {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	resp := sessionResponse{
		Authenticated: s.gate.IsAuthenticated(ctx),
		State:         s.gate.State(),
	}
	if resp.Authenticated {
		resp.User = s.gate.UserInfo(ctx)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit := defaultListLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	var target language.Code
	if v := q.Get("lang"); v != "" {
		c, err := language.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		target = c
	}

	items, err := s.store.GetRecentInteractions(ctx, limit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list interactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if target != "" && s.translator != nil {
		TranslateInteractions(ctx, s.translator, items, target)
	}
	if items == nil {
		items = []*database.Interaction{}
	}

	writeJSON(w, http.StatusOK, interactionsResponse{Language: target.String(), Interactions: items})
}

// TranslateInteractions translates the questions and successful responses
// of items into target in place. Failed translations keep the stored text.
func TranslateInteractions(ctx context.Context, tr Translator, items []*database.Interaction, target language.Code) {
	for _, it := range items {
		it.Question = tr.TranslateText(ctx, it.Question, target, language.Normalize(it.QuestionLanguage))
		if it.Success {
			it.Response = tr.TranslateText(ctx, it.Response, target, language.Normalize(it.ResponseLanguage))
		}
	}
}
