package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/auth"
	"github.com/ijlaln/footycount-app/internal/players"
)

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	JerseyNumber *int64 `json:"jerseyNumber"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type sessionResponse struct {
	Player players.Player `json:"player"`
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK!"))
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return s.registerWith(func(input players.NewPlayer) (players.Player, error) {
		return s.Players.Register(input)
	})
}

// RegisterAdminHandler provisions the first admin account. The store
// rejects it once any admin exists.
func (s *Server) RegisterAdminHandler() http.HandlerFunc {
	return s.registerWith(func(input players.NewPlayer) (players.Player, error) {
		return s.Players.RegisterAdmin(input)
	})
}

func (s *Server) registerWith(register func(players.NewPlayer) (players.Player, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player, err := register(players.NewPlayer{
			Username:     req.Username,
			Password:     req.Password,
			Name:         req.Name,
			Position:     req.Position,
			JerseyNumber: req.JerseyNumber,
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if !s.startSession(w, player) {
			return
		}
		log.Info("Player registered", "playerID", player.ID, "username", player.Username, "admin", player.IsAdmin)
		respondJSON(w, http.StatusCreated, sessionResponse{Player: player})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player, err := s.Players.Authenticate(req.Username, req.Password)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if !s.startSession(w, player) {
			return
		}
		log.Info("Player logged in", "playerID", player.ID, "username", player.Username)
		respondJSON(w, http.StatusOK, sessionResponse{Player: player})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.Cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		player, err := s.Players.Get(identity.PlayerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sessionResponse{Player: player})
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		var req changePasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Players.ChangePassword(identity.PlayerID, req.CurrentPassword, req.NewPassword); err != nil {
			respondStoreError(w, err)
			return
		}
		log.Info("Password changed", "playerID", identity.PlayerID)
		respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

// startSession issues a token for the player and sets the session cookie.
// Returns false after writing an error response when issuing fails.
func (s *Server) startSession(w http.ResponseWriter, player players.Player) bool {
	token, err := s.Tokens.Issue(auth.Identity{
		PlayerID: player.ID,
		Username: player.Username,
		Name:     player.Name,
		IsAdmin:  player.IsAdmin,
	})
	if err != nil {
		log.Error("Failed to issue session token", "error", err)
		respondError(w, http.StatusInternalServerError, errKindStoreError, "internal error")
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.Tokens.TTL()),
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
