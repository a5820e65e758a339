package matches

// MatchRow is one match in the upcoming/past lists.
type MatchRow struct {
	ID        int64
	Opponent  string
	MatchType string
	Map       string
	LocalTime string
	Result    string
	MyStatus  string
}

// CreateForm echoes the admin's input back after a validation error.
type CreateForm struct {
	Opponent    string
	Map         string
	MatchType   string
	ScheduledAt string
	Notes       string
}

// EditData drives the edit page. ScheduledAt in Form is local to Timezone.
type EditData struct {
	MatchID  int64
	Timezone string
	Form     CreateForm
	Error    string
}

type ListData struct {
	Timezone string
	Upcoming []MatchRow
	Past     []MatchRow
	IsAdmin  bool
	Form     CreateForm
	Error    string
}

type PlayerResponse struct {
	UserID     int64
	Name       string
	Status     string
	HasDiscord bool
}

type SyncedRow struct {
	RiotID  string
	Team    string
	Agent   string
	Score   string
	Kills   string
	Deaths  string
	Assists string
	Linked  bool
}

type DetailData struct {
	ID              int64
	Opponent        string
	MatchType       string
	Map             string
	LocalTime       string
	Timezone        string
	Notes           string
	Upcoming        bool
	IsAdmin         bool
	MyStatus        string
	Responses       []PlayerResponse
	Result          string
	ScoreUs         string
	ScoreThem       string
	ValorantMatchID string
	Synced          []SyncedRow
	RiotPlayers     []RiotPlayer
}

// RiotPlayer is a roster player whose match history can be looked up.
type RiotPlayer struct {
	UserID int64
	Name   string
	RiotID string
}

type RecentRow struct {
	MatchID   string
	Map       string
	Mode      string
	StartedAt string
	Type      string
	Score     string
	Result    string
}

// RecentData lists a player's recent Valorant matches to link one of them.
type RecentData struct {
	MatchID int64
	Player  string
	Rows    []RecentRow
	Error   string
}

type ResponseData struct {
	MatchID int64
	Status  string
}

type AvailableAtData struct {
	LocalTime string
	Players   []string
}

// NudgeResultData is the fragment swapped in after a nudge action.
type NudgeResultData struct {
	Status  string
	Message string
}
