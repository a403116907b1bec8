package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UserProfile is the traveller's preference profile. Every field is optional.
type UserProfile struct {
	Destination     string   `json:"destination"`
	MaxPrice        OptFloat `json:"maxPrice"`
	Vibe            string   `json:"vibe"`
	NoiseLevel      OptFloat `json:"noiseLevel"`
	Age             OptFloat `json:"age"`
	Size            string   `json:"size"`
	NationalityPref string   `json:"nationalityPref"`
	Requirements    string   `json:"requirements"`
	NomadMode       bool     `json:"nomadMode"`
	SoloMode        bool     `json:"soloMode"`
}

// Profile defaults.
const (
	DefaultMaxPrice   = 30.0
	DefaultNoiseLevel = 50.0
	DefaultAge        = 25.0
)

func (p UserProfile) TargetPrice() float64 { return p.MaxPrice.Or(DefaultMaxPrice) }
func (p UserProfile) NoisePref() float64   { return p.NoiseLevel.Or(DefaultNoiseLevel) }
func (p UserProfile) UserAge() float64     { return p.Age.Or(DefaultAge) }

// OptFloat is an optional number. It accepts JSON numbers and numeric strings;
// anything else leaves it unset.
type OptFloat struct {
	Value float64
	Set   bool
}

func Float(v float64) OptFloat { return OptFloat{Value: v, Set: true} }

// Or returns the value, or def when unset.
func (o OptFloat) Or(def float64) float64 {
	if !o.Set {
		return def
	}
	return o.Value
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	*o = OptFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*o = Float(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*o = Float(f)
		}
	}
	// booleans, objects and junk strings fall back to the default
	return nil
}

func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
