package scoreboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeState renders the persisted record: indented JSON, field order fixed
// by QuizState.
func EncodeState(st QuizState) ([]byte, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// DecodeState reads a persisted record over defaults. The record must be a
// JSON object with a teams array. Each field it carries wins over the
// default when it has a usable type; anything else keeps the default.
// Teams are normalized on the way in, so an odd entry becomes t{i}/Team {i}.
func DecodeState(raw []byte, defaults QuizState) (QuizState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return QuizState{}, fmt.Errorf("decoding state: %w", err)
	}
	teams, ok := fields["teams"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(teams), []byte("[")) {
		return QuizState{}, errMalformedState
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(teams, &entries); err != nil {
		return QuizState{}, fmt.Errorf("decoding teams: %w", err)
	}

	st := defaults.Clone()
	decodeField(fields, "version", &st.Version)
	decodeField(fields, "updatedAt", &st.UpdatedAt)

	var title Text
	if decodeField(fields, "quizTitle", &title) {
		st.QuizTitle = truncate(title.trimmed(), maxTitleLen)
	}
	if strings.TrimSpace(st.QuizTitle) == "" {
		st.QuizTitle = DefaultTitle
	}

	loaded := make([]Team, len(entries))
	for i, e := range entries {
		loaded[i] = decodeTeam(e)
	}
	st.Teams = normalizeTeams(loaded)
	return st, nil
}

// decodeTeam reads one teams entry. Fields that are missing or of the wrong
// type stay zero; a non-object entry yields an empty team.
func decodeTeam(raw json.RawMessage) Team {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Team{}
	}
	var (
		id, name Text
		score    Number
	)
	decodeField(fields, "id", &id)
	decodeField(fields, "name", &name)
	decodeField(fields, "score", &score)
	return Team{ID: string(id), Name: string(name), Score: float64(score)}
}

// decodeField unmarshals fields[key] into dst and reports whether it did.
// dst is left untouched when the key is absent, null or its value does not
// fit.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}
