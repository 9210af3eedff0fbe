package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/fanout"
	"github.com/ijlaln/footycount-app/internal/matches"
)

type createMatchRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	MatchDate   string  `json:"matchDate"`
	Location    *string `json:"location"`
}

type updateMatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	MatchDate   *string `json:"matchDate"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

type setAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// parseMatchDate accepts RFC 3339 and the bare datetime-local format
// browsers submit.
func parseMatchDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		var req createMatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.MatchDate == "" {
			respondError(w, http.StatusBadRequest, errKindValidation, "matchDate is required")
			return
		}
		matchDate, ok := parseMatchDate(req.MatchDate)
		if !ok {
			respondError(w, http.StatusBadRequest, errKindValidation, "matchDate is not a valid timestamp")
			return
		}
		match, err := s.Matches.Create(identity.PlayerID, matches.NewMatch{
			Title:       req.Title,
			Description: req.Description,
			MatchDate:   matchDate,
			Location:    req.Location,
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}
		s.Metrics.IncMatchesCreated()
		s.Broadcaster.Broadcast(fanout.EventNewMatch, match)
		log.Info("Match created", "matchID", match.ID, "title", match.Title, "createdBy", identity.PlayerID)
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := pathID(w, r)
		if !ok {
			return
		}
		var req updateMatchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		update := matches.MatchUpdate{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			Status:      req.Status,
		}
		if req.MatchDate != nil {
			matchDate, valid := parseMatchDate(*req.MatchDate)
			if !valid {
				respondError(w, http.StatusBadRequest, errKindValidation, "matchDate is not a valid timestamp")
				return
			}
			update.MatchDate = &matchDate
		}
		match, err := s.Matches.Update(matchID, update)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		s.Broadcaster.Broadcast(fanout.EventMatchUpdated, match)
		log.Info("Match updated", "matchID", matchID)
		respondJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.Matches.Delete(matchID); err != nil {
			respondStoreError(w, err)
			return
		}
		s.Broadcaster.Broadcast(fanout.EventMatchDeleted, map[string]int64{"id": matchID})
		log.Info("Match deleted", "matchID", matchID)
		respondJSON(w, http.StatusOK, map[string]string{"message": "match deleted"})
	}
}

func (s *Server) RecordStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := pathID(w, r)
		if !ok {
			return
		}
		var input matches.StatsInput
		if !decodeJSON(w, r, &input) {
			return
		}
		if err := s.Matches.UpsertStats(matchID, input); err != nil {
			respondStoreError(w, err)
			return
		}
		log.Info("Match statistics recorded", "matchID", matchID, "playerID", input.PlayerID)
		respondJSON(w, http.StatusOK, map[string]string{"message": "statistics recorded"})
	}
}

func (s *Server) AdminListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Players.List()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) SetAdminFlagHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := pathID(w, r)
		if !ok {
			return
		}
		var req setAdminRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player, err := s.Players.SetAdminFlag(playerID, req.IsAdmin)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		log.Info("Admin flag updated", "playerID", playerID, "isAdmin", req.IsAdmin)
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		playerID, ok := pathID(w, r)
		if !ok {
			return
		}
		if playerID == identity.PlayerID {
			respondError(w, http.StatusBadRequest, errKindValidation, "cannot delete your own account")
			return
		}
		if err := s.Players.Delete(playerID); err != nil {
			respondStoreError(w, err)
			return
		}
		log.Info("Player deleted", "playerID", playerID)
		respondJSON(w, http.StatusOK, map[string]string{"message": "player deleted"})
	}
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Matches.Dashboard()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
