package scoreboard

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ordering ranks teams by score, highest first, breaking ties by name
// using the collation rules of a locale.
type Ordering struct {
	tag language.Tag
}

func NewOrdering(tag language.Tag) Ordering {
	return Ordering{tag: tag}
}

// Standing is a team together with its 1-based leaderboard position.
type Standing struct {
	Rank int `json:"rank"`
	Team
}

// Sort returns the teams in leaderboard order. The input is not modified.
func (o Ordering) Sort(teams []Team) []Team {
	// A Collator keeps scratch buffers, so each call gets its own.
	c := collate.New(o.tag)
	out := slices.Clone(teams)
	slices.SortStableFunc(out, func(a, b Team) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return c.CompareString(a.Name, b.Name)
	})
	return out
}

// Rank orders teams and numbers them. A top of zero or less, or one that
// reaches the team cap, returns every team.
func (o Ordering) Rank(teams []Team, top int) []Standing {
	sorted := o.Sort(teams)
	if top > 0 && top < maxTeams && top < len(sorted) {
		sorted = sorted[:top]
	}
	out := make([]Standing, len(sorted))
	for i, t := range sorted {
		out[i] = Standing{Rank: i + 1, Team: t}
	}
	return out
}
