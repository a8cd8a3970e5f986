package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unit is a measuring unit, stored by its abbreviation.
type Unit string

const (
	UnitG     Unit = "g"
	UnitKG    Unit = "kg"
	UnitMG    Unit = "mg"
	UnitMCG   Unit = "mcg"
	UnitML    Unit = "ml"
	UnitL     Unit = "l"
	UnitTSP   Unit = "tsp"
	UnitTBSP  Unit = "tbsp"
	UnitCup   Unit = "cup"
	UnitOZ    Unit = "oz"
	UnitLB    Unit = "lb"
	UnitPiece Unit = "piece"
	UnitPinch Unit = "pinch"
	UnitClove Unit = "clove"
	UnitSlice Unit = "slice"
)

var units = []Unit{
	UnitG, UnitKG, UnitMG, UnitMCG, UnitML, UnitL, UnitTSP, UnitTBSP,
	UnitCup, UnitOZ, UnitLB, UnitPiece, UnitPinch, UnitClove, UnitSlice,
}

// unitAliases are spellings seen in imported data that do not match a name.
var unitAliases = map[string]Unit{
	"stk": UnitPiece,
}

// ParseUnit decodes an abbreviation ("g") or a name ("G", "PIECE").
// The second result is false for blank or unknown values.
func ParseUnit(raw string) (Unit, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if u, ok := unitAliases[s]; ok {
		return u, true
	}
	for _, u := range units {
		if string(u) == s {
			return u, true
		}
	}
	return "", false
}

// Abbreviation is the stored form.
func (u Unit) Abbreviation() string { return string(u) }

// Name is the wire form, e.g. "TBSP".
func (u Unit) Name() string { return strings.ToUpper(string(u)) }

func (u Unit) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Name())
}

func (u *Unit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unit must be a string: %w", err)
	}
	parsed, ok := ParseUnit(s)
	if !ok {
		return fmt.Errorf("unknown unit: %s", s)
	}
	*u = parsed
	return nil
}
