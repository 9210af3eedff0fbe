package matches

// MatchStore defines the interface for match and attendance data.
type MatchStore interface {
	Create(createdBy int64, input NewMatch) (Match, error)
	Update(matchID int64, update MatchUpdate) (Match, error)
	Delete(matchID int64) error
	Get(matchID int64) (Match, error)
	ListAll() ([]Summary, error)
	ListUpcoming(playerID int64) ([]Summary, error)
	Detail(matchID int64) (Detail, error)
	MarkAttendance(matchID, playerID int64, status string) (AttendanceCounts, error)
	AttendanceCounts(matchID int64) (AttendanceCounts, error)
	Roster(matchID int64) (Roster, error)
	UpsertStats(matchID int64, input StatsInput) error
	Dashboard() (DashboardStats, error)
}
