package http

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/fanout"
)

type markAttendanceRequest struct {
	Status string `json:"status"`
}

// attendanceUpdatePayload is fanned out after every successful mark.
type attendanceUpdatePayload struct {
	MatchID    int64  `json:"match_id"`
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	Status     string `json:"status"`
	Counts     any    `json:"counts"`
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Matches.ListAll()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) UpcomingMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		list, err := s.Matches.ListUpcoming(identity.PlayerID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) MatchDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := pathID(w, r)
		if !ok {
			return
		}
		detail, err := s.Matches.Detail(matchID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, detail)
	}
}

func (s *Server) MarkAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromContext(r)
		matchID, ok := pathID(w, r)
		if !ok {
			return
		}
		var req markAttendanceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		counts, err := s.Matches.MarkAttendance(matchID, identity.PlayerID, req.Status)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		s.Metrics.IncAttendanceMarks()
		s.Broadcaster.Broadcast(fanout.EventAttendanceUpdate, attendanceUpdatePayload{
			MatchID:    matchID,
			PlayerID:   identity.PlayerID,
			PlayerName: identity.Name,
			Status:     req.Status,
			Counts:     counts,
		})
		log.Info("Attendance marked", "matchID", matchID, "playerID", identity.PlayerID, "status", req.Status)
		respondJSON(w, http.StatusOK, counts)
	}
}

func (s *Server) MatchRosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, ok := pathID(w, r)
		if !ok {
			return
		}
		roster, err := s.Matches.Roster(matchID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, roster)
	}
}
