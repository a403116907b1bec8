package domain

// ScoreSet holds the per-dimension fit scores, each in [0,100].
type ScoreSet struct {
	Price       int `json:"price"`
	Vibe        int `json:"vibe"`
	Facilities  int `json:"facilities"`
	Noise       int `json:"noise"`
	Age         int `json:"age"`
	Size        int `json:"size"`
	Nationality int `json:"nationality"`
	Nomad       int `json:"nomad"`
	Solo        int `json:"solo"`
}

// RankedCandidate wraps a record with its scores. The record is never modified.
type RankedCandidate struct {
	Record    Record   `json:"record"`
	Scores    ScoreSet `json:"scores"`
	Aggregate float64  `json:"aggregate"`
}
