// Package matching scores venue records against a traveller profile and
// selects a ranked shortlist.
package matching

import (
	"math"

	"hostel_picker/internal/domain"
)

// Engine composes the normalizers under one Config. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// Score computes every sub-score for one record.
func (e *Engine) Score(r domain.Record, p domain.UserProfile) domain.ScoreSet {
	return domain.ScoreSet{
		Price:       toInt(PriceScore(r, p)),
		Vibe:        toInt(VibeScore(r, p, e.cfg.VibeBuckets)),
		Facilities:  toInt(FacilitiesScore(r, p, e.cfg.FacilityBuckets)),
		Noise:       toInt(NoiseScore(r, p, e.cfg.NoiseLevels)),
		Age:         toInt(AgeScore(r, p)),
		Size:        toInt(SizeScore(r, p)),
		Nationality: toInt(NationalityScore(r, p)),
		Nomad:       toInt(NomadScore(r)),
		Solo:        toInt(SoloScore(r)),
	}
}

// Aggregate is the weighted sum of s. It only orders candidates within one
// shortlist and is not normalized.
func (e *Engine) Aggregate(s domain.ScoreSet, p domain.UserProfile) float64 {
	w := e.cfg.Weights
	nomadW, soloW := w.Nomad, w.Solo
	if p.NomadMode {
		nomadW = w.NomadBoosted
	}
	if p.SoloMode {
		soloW = w.SoloBoosted
	}
	return float64(s.Price)*w.Price +
		float64(s.Facilities)*w.Facilities +
		float64(s.Vibe)*w.Vibe +
		float64(s.Noise)*w.Noise +
		float64(s.Nomad)*nomadW +
		float64(s.Solo)*soloW +
		float64(s.Age)*w.Age +
		float64(s.Size)*w.Size +
		float64(s.Nationality)*w.Nationality
}

// Rank scores one record and wraps it as a candidate.
func (e *Engine) Rank(r domain.Record, p domain.UserProfile) domain.RankedCandidate {
	s := e.Score(r, p)
	return domain.RankedCandidate{Record: r, Scores: s, Aggregate: e.Aggregate(s, p)}
}

func toInt(v float64) int { return int(math.Round(clamp(v))) }
