package valorant

import "strings"

const (
	TeamRed  = "Red"
	TeamBlue = "Blue"
)

// MatchType classifies a match from the API.
type MatchType string

const (
	MatchTypePremier MatchType = "Premier"
	MatchTypeCustom  MatchType = "Custom"
	MatchTypeOther   MatchType = "Other"
)

// Result is a match outcome from our side.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// ClassifyMatch reports Premier when any premier id or premier label is set,
// then Custom on a custom label, else Other.
func ClassifyMatch(meta MatchMetadata) MatchType {
	if meta.PremierInfo != nil && (meta.PremierInfo.TournamentID != "" || meta.PremierInfo.MatchupID != "") {
		return MatchTypePremier
	}
	labels := []string{meta.Queue, meta.Mode, meta.ModeID}
	for _, label := range labels {
		if strings.Contains(strings.ToLower(label), "premier") {
			return MatchTypePremier
		}
	}
	for _, label := range labels {
		if strings.Contains(strings.ToLower(label), "custom") {
			return MatchTypeCustom
		}
	}
	return MatchTypeOther
}

// DetermineResult compares round counts.
func DetermineResult(scoreUs, scoreThem int64) Result {
	switch {
	case scoreUs > scoreThem:
		return ResultWin
	case scoreUs < scoreThem:
		return ResultLoss
	}
	return ResultDraw
}

// teamOf finds the side of the given player.
func teamOf(match rawMatch, id RiotID) (string, bool) {
	for _, player := range match.Players.AllPlayers {
		if strings.EqualFold(player.Name, id.Name) && strings.EqualFold(player.Tag, id.Tag) {
			if player.Team == TeamRed || player.Team == TeamBlue {
				return player.Team, true
			}
			return "", false
		}
	}
	return "", false
}

// scores returns rounds won by side, from the given side's view.
func scores(match rawMatch, side string) (int64, int64, bool) {
	red, blue := match.Teams.Red.RoundsWon, match.Teams.Blue.RoundsWon
	if red == nil || blue == nil {
		return 0, 0, false
	}
	if side == TeamRed {
		return *red, *blue, true
	}
	return *blue, *red, true
}
