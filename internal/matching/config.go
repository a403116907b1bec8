package matching

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Buckets maps a coarse preference label to the keywords that satisfy it.
type Buckets map[string][]string

// NoiseLevel maps venue noise keywords to a level on the 0-100 scale.
type NoiseLevel struct {
	Level    float64  `json:"level" validate:"gte=0,lte=100"`
	Keywords []string `json:"keywords" validate:"required,min=1"`
}

// Weights multiply each sub-score into the aggregate.
type Weights struct {
	Price        float64 `json:"price" validate:"gte=0"`
	Facilities   float64 `json:"facilities" validate:"gte=0"`
	Vibe         float64 `json:"vibe" validate:"gte=0"`
	Noise        float64 `json:"noise" validate:"gte=0"`
	Nomad        float64 `json:"nomad" validate:"gte=0"`
	NomadBoosted float64 `json:"nomad_boosted" validate:"gte=0"` // used when nomadMode is on
	Solo         float64 `json:"solo" validate:"gte=0"`
	SoloBoosted  float64 `json:"solo_boosted" validate:"gte=0"` // used when soloMode is on
	Age          float64 `json:"age" validate:"gte=0"`
	Size         float64 `json:"size" validate:"gte=0"`
	Nationality  float64 `json:"nationality" validate:"gte=0"`
}

// Config is the tunable vocabulary and weighting of the engine.
type Config struct {
	Weights         Weights      `json:"weights"`
	VibeBuckets     Buckets      `json:"vibe_buckets"`
	FacilityBuckets Buckets      `json:"facility_buckets"`
	NoiseLevels     []NoiseLevel `json:"noise_levels" validate:"dive"`
}

func DefaultWeights() Weights {
	return Weights{
		Price:        1.0,
		Facilities:   0.8,
		Vibe:         1.0,
		Noise:        0.5,
		Nomad:        0.5,
		NomadBoosted: 1.5,
		Solo:         0.5,
		SoloBoosted:  1.5,
		Age:          0.5,
		Size:         0.5,
		Nationality:  0.1,
	}
}

func DefaultVibeBuckets() Buckets {
	return Buckets{
		"party":  {"party", "bar", "nightlife", "pub crawl", "club", "drinks", "beer pong"},
		"chill":  {"chill", "relax", "laid-back", "laid back", "calm", "cozy", "hammock"},
		"social": {"social", "friendly", "meet", "family dinner", "events", "communal", "mingle"},
		"work":   {"work", "coworking", "co-working", "wifi", "desk", "laptop", "nomad"},
		"nature": {"nature", "beach", "mountain", "jungle", "garden", "hiking", "surf"},
	}
}

func DefaultFacilityBuckets() Buckets {
	return Buckets{
		"work":          {"desk", "coworking", "co-working", "workspace", "wifi", "work"},
		"digital nomad": {"coworking", "co-working", "fast wifi", "desk", "nomad"},
		"party":         {"bar", "party", "club", "nightlife"},
		"social":        {"common room", "lounge", "bar", "events", "social", "terrace"},
		"kitchen":       {"kitchen", "cooking"},
		"food":          {"restaurant", "breakfast", "cafe", "food", "meals"},
		"pool":          {"pool", "swimming"},
		"gym":           {"gym", "fitness"},
		"privacy":       {"private", "curtain", "pod", "privacy"},
		"ac":            {"air conditioning", "airco", "a/c", "ac"},
	}
}

// DefaultNoiseLevels are checked in order; the first level with a matching
// keyword wins.
func DefaultNoiseLevels() []NoiseLevel {
	return []NoiseLevel{
		{Level: 90, Keywords: []string{"loud", "party", "music"}},
		{Level: 50, Keywords: []string{"medium", "social"}},
		{Level: 15, Keywords: []string{"quiet", "peace", "nature"}},
	}
}

func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		VibeBuckets:     DefaultVibeBuckets(),
		FacilityBuckets: DefaultFacilityBuckets(),
		NoiseLevels:     DefaultNoiseLevels(),
	}
}

// Validate checks weight signs and noise level ranges.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	return nil
}

// LoadConfig overlays the JSON file at path on DefaultConfig. Weights merge
// field by field; a bucket table or noise list present in the file replaces
// the default one. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read scoring config %s: %w", path, err)
	}

	file := struct {
		Weights         *Weights     `json:"weights"`
		VibeBuckets     Buckets      `json:"vibe_buckets"`
		FacilityBuckets Buckets      `json:"facility_buckets"`
		NoiseLevels     []NoiseLevel `json:"noise_levels"`
	}{Weights: &cfg.Weights}
	if err := json.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("failed to parse scoring config: %w", err)
	}
	if file.VibeBuckets != nil {
		cfg.VibeBuckets = file.VibeBuckets
	}
	if file.FacilityBuckets != nil {
		cfg.FacilityBuckets = file.FacilityBuckets
	}
	if file.NoiseLevels != nil {
		cfg.NoiseLevels = file.NoiseLevels
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
