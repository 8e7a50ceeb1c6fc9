package scoreboard

import (
	"errors"
	"math"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Action
		wantErr error
	}{
		{
			name: "set title",
			raw:  `{"type":"setQuizTitle","title":"Finale"}`,
			want: &SetQuizTitle{Title: "Finale"},
		},
		{
			name: "count as string",
			raw:  `{"type":"setTeamsFromCount","count":"4"}`,
			want: &SetTeamsFromCount{Count: 4},
		},
		{
			name: "missing delta reads as zero",
			raw:  `{"type":"adjustScore","id":"t1"}`,
			want: &AdjustScore{ID: "t1"},
		},
		{
			name: "numeric id",
			raw:  `{"type":"removeTeam","id":7}`,
			want: &RemoveTeam{ID: "7"},
		},
		{
			name: "no payload",
			raw:  `{"type":"resetScores"}`,
			want: &ResetScores{},
		},
		{
			name:    "unknown type",
			raw:     `{"type":"explode"}`,
			wantErr: ErrUnknownAction,
		},
		{
			name:    "missing type",
			raw:     `{}`,
			wantErr: ErrUnknownAction,
		},
		{
			name:    "not json",
			raw:     `{"type":`,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "object where text expected",
			raw:     `{"type":"addTeam","name":{"x":1}}`,
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction([]byte(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type() != tt.want.Type() {
				t.Fatalf("type = %s, want %s", got.Type(), tt.want.Type())
			}
			switch w := tt.want.(type) {
			case *SetQuizTitle:
				if *got.(*SetQuizTitle) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *SetTeamsFromCount:
				if *got.(*SetTeamsFromCount) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *AdjustScore:
				if *got.(*AdjustScore) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			case *RemoveTeam:
				if *got.(*RemoveTeam) != *w {
					t.Errorf("got %+v, want %+v", got, w)
				}
			}
		})
	}
}

func TestUnknownActionErrorCarriesType(t *testing.T) {
	_, err := ParseAction([]byte(`{"type":"launchRocket"}`))

	var uae *UnknownActionError
	if !errors.As(err, &uae) {
		t.Fatalf("err = %v, want *UnknownActionError", err)
	}
	if uae.Type != "launchRocket" {
		t.Errorf("type = %q, want launchRocket", uae.Type)
	}
	if err.Error() != "unknown action: launchRocket" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{`3`, 3, true},
		{`-2.5`, -2.5, true},
		{`" 12 "`, 12, true},
		{`""`, 0, true},
		{`null`, 0, true},
		{`true`, 1, true},
		{`false`, 0, true},
		{`"abc"`, 0, false},
		{`"Infinity"`, 0, false},
		{`"1e400"`, 0, false},
		{`1e400`, 0, false},
		{`-1e400`, 0, false},
		{`1e-400`, 0, true},
		{`[1]`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Number
			if err := n.UnmarshalJSON([]byte(tt.raw)); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if n.finite() != tt.wantOK {
				t.Fatalf("finite = %v, want %v (value %v)", n.finite(), tt.wantOK, float64(n))
			}
			if tt.wantOK && float64(n) != tt.want {
				t.Errorf("value = %v, want %v", float64(n), tt.want)
			}
		})
	}
}

func TestSetTeamsFromCountClamps(t *testing.T) {
	tests := []struct {
		count Number
		want  int
	}{
		{3, 3},
		{0, 0},
		{-5, 0},
		{2.9, 2},
		{500, 60},
		{Number(math.NaN()), 0},
		{Number(math.Inf(1)), 60},
	}
	for _, tt := range tests {
		st := QuizState{Teams: []Team{{ID: "old", Name: "Old"}}}
		if err := (SetTeamsFromCount{Count: tt.count}).apply(&st, Ordering{}); err != nil {
			t.Fatalf("count %v: %v", tt.count, err)
		}
		if len(st.Teams) != tt.want {
			t.Errorf("count %v: got %d teams, want %d", float64(tt.count), len(st.Teams), tt.want)
		}
	}
}

func TestSetQuizTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Grand Final  ", "Grand Final"},
		{"   ", DefaultTitle},
		{"", DefaultTitle},
		{"abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijabcdefghijXYZ", "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijabcdefghij"},
	}
	for _, tt := range tests {
		st := QuizState{QuizTitle: "before"}
		if err := (SetQuizTitle{Title: Text(tt.in)}).apply(&st, Ordering{}); err != nil {
			t.Fatal(err)
		}
		if st.QuizTitle != tt.want {
			t.Errorf("title(%q) = %q, want %q", tt.in, st.QuizTitle, tt.want)
		}
	}
}

func TestRenameTeam(t *testing.T) {
	base := func() QuizState {
		return QuizState{Teams: []Team{{ID: "t1", Name: "Team 1"}, {ID: "t2", Name: "Team 2"}}}
	}

	tests := []struct {
		name   string
		action RenameTeam
		want   []string
	}{
		{"renames match", RenameTeam{ID: " t2 ", Name: "  Brainiacs "}, []string{"Team 1", "Brainiacs"}},
		{"empty name is ignored", RenameTeam{ID: "t1", Name: "   "}, []string{"Team 1", "Team 2"}},
		{"unknown id is ignored", RenameTeam{ID: "t9", Name: "Ghost"}, []string{"Team 1", "Team 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := base()
			if err := tt.action.apply(&st, Ordering{}); err != nil {
				t.Fatal(err)
			}
			for i, want := range tt.want {
				if st.Teams[i].Name != want {
					t.Errorf("team %d name = %q, want %q", i, st.Teams[i].Name, want)
				}
			}
		})
	}
}

func TestAdjustScoreRejectsOverflow(t *testing.T) {
	st := QuizState{Teams: []Team{{ID: "t1", Name: "Team 1", Score: math.MaxFloat64}}}
	err := (AdjustScore{ID: "t1", Delta: math.MaxFloat64}).apply(&st, Ordering{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if st.Teams[0].Score != math.MaxFloat64 {
		t.Errorf("score changed to %v", st.Teams[0].Score)
	}
}

func TestRemoveTeamKeepsOrder(t *testing.T) {
	st := QuizState{Teams: []Team{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}}
	if err := (RemoveTeam{ID: "t2"}).apply(&st, Ordering{}); err != nil {
		t.Fatal(err)
	}
	if len(st.Teams) != 2 || st.Teams[0].ID != "t1" || st.Teams[1].ID != "t3" {
		t.Errorf("teams = %+v, want t1, t3", st.Teams)
	}
}

func TestSetScore(t *testing.T) {
	st := QuizState{Teams: []Team{{ID: "t1", Score: 3}}}
	if err := (SetScore{ID: "t1", Score: 7.5}).apply(&st, Ordering{}); err != nil {
		t.Fatal(err)
	}
	if st.Teams[0].Score != 7.5 {
		t.Errorf("score = %v, want 7.5", st.Teams[0].Score)
	}
}

func TestHugeCountClampsToTeamCap(t *testing.T) {
	a, err := ParseAction([]byte(`{"type":"setTeamsFromCount","count":1e400}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c := float64(a.(*SetTeamsFromCount).Count); !math.IsInf(c, 1) {
		t.Fatalf("count = %v, want +Inf", c)
	}

	st := QuizState{}
	if err := a.apply(&st, Ordering{}); err != nil {
		t.Fatal(err)
	}
	if len(st.Teams) != maxTeams {
		t.Errorf("got %d teams, want %d", len(st.Teams), maxTeams)
	}
}

func TestHugeDeltaIsInvalid(t *testing.T) {
	a, err := ParseAction([]byte(`{"type":"adjustScore","id":"t1","delta":1e400}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := QuizState{Teams: []Team{{ID: "t1", Name: "Team 1", Score: 2}}}
	if err := a.apply(&st, Ordering{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if st.Teams[0].Score != 2 {
		t.Errorf("score changed to %v", st.Teams[0].Score)
	}
}
