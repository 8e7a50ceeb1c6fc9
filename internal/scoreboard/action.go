package scoreboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Action is one admin request to change the quiz state.
type Action interface {
	Type() string
	apply(st *QuizState, o Ordering) error
}

// Action type tags as they appear on the wire.
const (
	TypeSetQuizTitle      = "setQuizTitle"
	TypeSetTeamsFromCount = "setTeamsFromCount"
	TypeAddTeam           = "addTeam"
	TypeRemoveTeam        = "removeTeam"
	TypeRenameTeam        = "renameTeam"
	TypeAdjustScore       = "adjustScore"
	TypeSetScore          = "setScore"
	TypeResetScores       = "resetScores"
	TypeSortTeams         = "sortTeams"
	TypeLoadExample       = "loadExample"
)

var actionTypes = map[string]func() Action{
	TypeSetQuizTitle:      func() Action { return &SetQuizTitle{} },
	TypeSetTeamsFromCount: func() Action { return &SetTeamsFromCount{} },
	TypeAddTeam:           func() Action { return &AddTeam{} },
	TypeRemoveTeam:        func() Action { return &RemoveTeam{} },
	TypeRenameTeam:        func() Action { return &RenameTeam{} },
	TypeAdjustScore:       func() Action { return &AdjustScore{} },
	TypeSetScore:          func() Action { return &SetScore{} },
	TypeResetScores:       func() Action { return &ResetScores{} },
	TypeSortTeams:         func() Action { return &SortTeams{} },
	TypeLoadExample:       func() Action { return &LoadExample{} },
}

// ParseAction decodes a {"type": ..., ...payload} object into the matching
// action.
func ParseAction(raw []byte) (Action, error) {
	var head struct {
		Type Text `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, invalid("malformed action: %v", err)
	}

	newAction, ok := actionTypes[string(head.Type)]
	if !ok {
		return nil, &UnknownActionError{Type: string(head.Type)}
	}
	a := newAction()
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, invalid("malformed %s payload: %v", head.Type, err)
	}
	return a, nil
}

// Number is a lenient numeric payload field. It accepts JSON numbers,
// numeric strings and booleans; null, absent and blank values read as 0.
// Literals beyond float64 range read as ±Inf. Anything else decodes to NaN
// and fails validation later.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*n = 0
	case json.Number:
		*n = Number(parseNumber(v.String()))
	case bool:
		*n = 0
		if v {
			*n = 1
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			*n = 0
			return nil
		}
		*n = Number(parseNumber(s))
	default:
		*n = Number(math.NaN())
	}
	return nil
}

// parseNumber parses s as a float64. Out of range values come back as ±Inf,
// malformed ones as NaN.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func (n Number) finite() bool { return isFinite(float64(n)) }

// Text is a string payload field that also accepts numbers and booleans.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case json.Number:
		*t = Text(v.String())
	case bool:
		*t = Text(strconv.FormatBool(v))
	default:
		return fmt.Errorf("expected a string, got %s", b)
	}
	return nil
}

func (t Text) trimmed() string { return strings.TrimSpace(string(t)) }

type SetQuizTitle struct {
	Title Text `json:"title"`
}

func (SetQuizTitle) Type() string { return TypeSetQuizTitle }

func (a SetQuizTitle) apply(st *QuizState, _ Ordering) error {
	title := truncate(a.Title.trimmed(), maxTitleLen)
	if title == "" {
		title = DefaultTitle
	}
	st.QuizTitle = title
	return nil
}

type SetTeamsFromCount struct {
	Count Number `json:"count"`
}

func (SetTeamsFromCount) Type() string { return TypeSetTeamsFromCount }

func (a SetTeamsFromCount) apply(st *QuizState, _ Ordering) error {
	c := float64(a.Count)
	if math.IsNaN(c) {
		c = 0
	}
	n := int(math.Floor(math.Max(0, math.Min(maxTeams, c))))

	teams := make([]Team, 0, n)
	for i := 1; i <= n; i++ {
		teams = append(teams, Team{ID: "t" + strconv.Itoa(i), Name: "Team " + strconv.Itoa(i)})
	}
	st.Teams = normalizeTeams(teams)
	return nil
}

type AddTeam struct {
	Name Text `json:"name"`
}

func (AddTeam) Type() string { return TypeAddTeam }

func (a AddTeam) apply(st *QuizState, _ Ordering) error {
	name := a.Name.trimmed()
	if name == "" {
		return invalid("team name is empty")
	}
	team := Team{ID: nextTeamID(st.Teams, name), Name: name}
	st.Teams = normalizeTeams(append(st.Teams, team))
	return nil
}

type RemoveTeam struct {
	ID Text `json:"id"`
}

func (RemoveTeam) Type() string { return TypeRemoveTeam }

func (a RemoveTeam) apply(st *QuizState, _ Ordering) error {
	id := a.ID.trimmed()
	kept := make([]Team, 0, len(st.Teams))
	for _, t := range st.Teams {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	st.Teams = kept
	return nil
}

type RenameTeam struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
}

func (RenameTeam) Type() string { return TypeRenameTeam }

func (a RenameTeam) apply(st *QuizState, _ Ordering) error {
	name := truncate(a.Name.trimmed(), maxNameLen)
	if name == "" {
		return nil
	}
	if t := st.team(a.ID.trimmed()); t != nil {
		t.Name = name
	}
	return nil
}

type AdjustScore struct {
	ID    Text   `json:"id"`
	Delta Number `json:"delta"`
}

func (AdjustScore) Type() string { return TypeAdjustScore }

func (a AdjustScore) apply(st *QuizState, _ Ordering) error {
	if !a.Delta.finite() {
		return invalid("delta is not a number")
	}
	t := st.team(a.ID.trimmed())
	if t == nil {
		return nil
	}
	score := t.Score + float64(a.Delta)
	if !isFinite(score) {
		return invalid("score out of range")
	}
	t.Score = score
	return nil
}

type SetScore struct {
	ID    Text   `json:"id"`
	Score Number `json:"score"`
}

func (SetScore) Type() string { return TypeSetScore }

func (a SetScore) apply(st *QuizState, _ Ordering) error {
	if !a.Score.finite() {
		return invalid("score is not a number")
	}
	if t := st.team(a.ID.trimmed()); t != nil {
		t.Score = float64(a.Score)
	}
	return nil
}

type ResetScores struct{}

func (ResetScores) Type() string { return TypeResetScores }

func (ResetScores) apply(st *QuizState, _ Ordering) error {
	for i := range st.Teams {
		st.Teams[i].Score = 0
	}
	return nil
}

type SortTeams struct{}

func (SortTeams) Type() string { return TypeSortTeams }

func (SortTeams) apply(st *QuizState, o Ordering) error {
	st.Teams = o.Sort(st.Teams)
	return nil
}

// LoadExample replaces the quiz with a small demonstration dataset.
type LoadExample struct{}

func (LoadExample) Type() string { return TypeLoadExample }

func (LoadExample) apply(st *QuizState, _ Ordering) error {
	st.QuizTitle = DefaultTitle
	st.Teams = normalizeTeams([]Team{
		{ID: "t1", Name: "De Slimme Sokken", Score: 12},
		{ID: "t2", Name: "Quiz Khalifa", Score: 18},
		{ID: "t3", Name: "De Pintjes", Score: 9},
		{ID: "t4", Name: "Team 4", Score: 14},
	})
	return nil
}
