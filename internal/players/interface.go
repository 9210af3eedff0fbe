package players

// PlayerStore defines the interface for the player registry.
type PlayerStore interface {
	Register(input NewPlayer) (Player, error)
	RegisterAdmin(input NewPlayer) (Player, error)
	Authenticate(username, password string) (Player, error)
	ChangePassword(playerID int64, currentPassword, newPassword string) error
	UpdateProfile(playerID int64, update ProfileUpdate) (Player, error)
	SetAdminFlag(playerID int64, isAdmin bool) (Player, error)
	Delete(playerID int64) error
	Get(playerID int64) (Player, error)
	List() ([]Listing, error)
	Summary(playerID int64) (Summary, error)
	Activity(playerID int64) ([]Activity, error)
	Profile(playerID int64) (Profile, error)
}
