package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

type SkillScore struct {
	Name  string
	Score int
}

// SkillScores is an ordered skill-name to score mapping. It encodes as a JSON
// object and keeps the key order it was decoded with.
type SkillScores []SkillScore

func (s SkillScores) Get(name string) (int, bool) {
	for _, sk := range s {
		if sk.Name == name {
			return sk.Score, true
		}
	}
	return 0, false
}

func (s SkillScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sk := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sk.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", sk.Score)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object of numbers in [0,100]. Fractional scores are
// rounded; a repeated key keeps its first position and last value.
func (s *SkillScores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("skills must be an object, got %v", tok)
	}

	out := SkillScores{}
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("skill %q: score must be a number", name)
		}
		score, err := ParseScore(num)
		if err != nil {
			return fmt.Errorf("skill %q: %w", name, err)
		}
		if i, seen := index[name]; seen {
			out[i].Score = score
			continue
		}
		index[name] = len(out)
		out = append(out, SkillScore{Name: name, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// ParseScore converts a JSON number to an integer score in [0,100].
func ParseScore(num json.Number) (int, error) {
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("score %q is not a number", num)
	}
	if math.IsNaN(f) || f < 0 || f > 100 {
		return 0, fmt.Errorf("score %v out of range 0-100", f)
	}
	return int(math.Round(f)), nil
}
