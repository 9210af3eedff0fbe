package http

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/players"
)

type profileUpdateRequest struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	JerseyNumber *int64 `json:"jerseyNumber"`
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Players.List()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) PlayerSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		summary, err := s.Players.Summary(identity.PlayerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) PlayerActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		activity, err := s.Players.Activity(identity.PlayerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, activity)
	}
}

func (s *Server) PlayerProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := pathID(w, r)
		if !ok {
			return
		}
		profile, err := s.Players.Profile(playerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

// UpdateOwnProfileHandler lets the caller edit their own profile.
func (s *Server) UpdateOwnProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		s.updateProfile(w, r, identity.PlayerID)
	}
}

// UpdatePlayerHandler edits a profile by id. Non-admins may only edit
// themselves.
func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		playerID, ok := pathID(w, r)
		if !ok {
			return
		}
		if playerID != identity.PlayerID && !identity.IsAdmin {
			respondError(w, http.StatusForbidden, errKindForbidden, "cannot edit another player's profile")
			return
		}
		s.updateProfile(w, r, playerID)
	}
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, playerID int64) {
	var req profileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	player, err := s.Players.UpdateProfile(playerID, players.ProfileUpdate{
		Name:         req.Name,
		Position:     req.Position,
		JerseyNumber: req.JerseyNumber,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	log.Info("Profile updated", "playerID", playerID)
	respondJSON(w, http.StatusOK, player)
}
