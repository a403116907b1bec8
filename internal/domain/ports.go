package domain

import "context"

type SheetClient interface {
	// FetchCSV returns the raw export text behind url.
	FetchCSV(ctx context.Context, url string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SnapshotRepository interface {
	// Write paths
	SaveSnapshot(ctx context.Context, s Snapshot) error
	LogMiss(ctx context.Context, source string, status int, reason string) error

	// Read paths
	LatestSnapshot(ctx context.Context, source string) (Snapshot, error)
}

type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (Advice, error)
}

// ChatMessage is one turn of the conversation forwarded to the advisor.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

type AdviceRequest struct {
	Profile    UserProfile
	Messages   []ChatMessage
	Candidates []RankedCandidate
}

// Recommendation is one venue picked by the advisor. Only Name is relied on;
// the other model-written fields pass through as decoded JSON, so "87%",
// 87 or a list of alerts all round-trip unchanged.
type Recommendation struct {
	Name            string `json:"name"`
	Location        any    `json:"location,omitempty"`
	MatchPercentage any    `json:"matchPercentage,omitempty"`
	Price           any    `json:"price,omitempty"`
	Vibe            any    `json:"vibe,omitempty"`
	Alert           any    `json:"alert,omitempty"`
	Reason          any    `json:"reason,omitempty"`
	AuditLog        any    `json:"audit_log,omitempty"`
	HostelImg       string `json:"hostel_img"`
}

type Advice struct {
	Recommendations []Recommendation `json:"recommendations"`
	Message         string           `json:"message"`
}
