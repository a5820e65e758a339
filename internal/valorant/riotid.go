package valorant

import "strings"

// RiotID is a Riot account name and tagline.
type RiotID struct {
	Name string
	Tag  string
}

// ParseRiotID splits "name#tag". Exactly one '#' with non-empty sides is
// required.
func ParseRiotID(raw string) (RiotID, error) {
	parts := strings.Split(raw, "#")
	if len(parts) != 2 {
		return RiotID{}, ErrInvalidRiotID
	}
	id := RiotID{Name: strings.TrimSpace(parts[0]), Tag: strings.TrimSpace(parts[1])}
	if id.Name == "" || id.Tag == "" {
		return RiotID{}, ErrInvalidRiotID
	}
	return id, nil
}

// Key is the case-insensitive form used to match players across sources.
func (id RiotID) Key() string {
	return strings.ToLower(id.Name + "#" + id.Tag)
}

func (id RiotID) String() string {
	return id.Name + "#" + id.Tag
}
