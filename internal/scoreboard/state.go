// Package scoreboard holds the authoritative quiz state, the actions that
// mutate it and the ordering used to rank teams. It has no transport or
// storage dependencies; those are plugged in through Persister and
// Broadcaster.
package scoreboard

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// SchemaVersion tags the persisted record layout.
	SchemaVersion = 1

	// DefaultTitle replaces an empty quiz title.
	DefaultTitle = "Pubquiz"

	maxTitleLen = 60
	maxNameLen  = 40
	maxTeams    = 60

	timeLayout = "2006-01-02T15:04:05.000Z"
)

type Team struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// QuizState is the single record every client renders.
type QuizState struct {
	Version   int    `json:"version"`
	UpdatedAt string `json:"updatedAt"`
	QuizTitle string `json:"quizTitle"`
	Teams     []Team `json:"teams"`
}

// Default returns an empty quiz stamped with now.
func Default(now time.Time) QuizState {
	return QuizState{
		Version:   SchemaVersion,
		UpdatedAt: FormatTime(now),
		QuizTitle: DefaultTitle,
		Teams:     []Team{},
	}
}

// Clone returns a copy that shares no memory with s.
func (s QuizState) Clone() QuizState {
	teams := make([]Team, len(s.Teams))
	copy(teams, s.Teams)
	s.Teams = teams
	return s
}

func (s *QuizState) team(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// FormatTime renders t the way updatedAt and serverTime are sent to clients.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Store owns the one QuizState of the process.
type Store struct {
	mu    sync.RWMutex
	state QuizState
}

func NewStore(initial QuizState) *Store {
	return &Store{state: initial.Clone()}
}

// Snapshot returns a copy of the current state, safe to encode while
// the store keeps changing.
func (s *Store) Snapshot() QuizState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) set(st QuizState) {
	s.mu.Lock()
	s.state = st.Clone()
	s.mu.Unlock()
}

// normalizeTeams guarantees unique non-empty ids, non-empty names and
// finite scores after a bulk replace of the team list.
func normalizeTeams(teams []Team) []Team {
	seen := make(map[string]struct{}, len(teams))
	out := make([]Team, 0, len(teams))
	for i, t := range teams {
		n := i + 1

		id := strings.TrimSpace(t.ID)
		if id == "" {
			id = fmt.Sprintf("t%d", n)
		}
		for {
			if _, dup := seen[id]; !dup {
				break
			}
			id = fmt.Sprintf("%s_%d", id, n)
		}
		seen[id] = struct{}{}

		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = fmt.Sprintf("Team %d", n)
		}

		score := t.Score
		if !isFinite(score) {
			score = 0
		}

		out = append(out, Team{ID: id, Name: truncate(name, maxNameLen), Score: score})
	}
	return out
}

// slugify lowercases name and joins its [a-z0-9] runs with single hyphens.
func slugify(name string) string {
	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// nextTeamID derives an id for a new team from its name, suffixing -2, -3...
// until it is free.
func nextTeamID(teams []Team, name string) string {
	base := slugify(name)
	id := base
	if id == "" {
		id = fmt.Sprintf("t%d", len(teams)+1)
	}
	prefix := base
	if prefix == "" {
		prefix = "team"
	}
	for n := 2; hasTeam(teams, id); n++ {
		id = fmt.Sprintf("%s-%d", prefix, n)
	}
	return id
}

func hasTeam(teams []Team, id string) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
