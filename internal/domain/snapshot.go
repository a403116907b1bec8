package domain

import "time"

// SheetSource names one published sheet export.
type SheetSource struct {
	Name string
	URL  string
}

// Snapshot is a stored copy of one fetched sheet export.
type Snapshot struct {
	ID        string
	Source    string
	URL       string
	Checksum  string // sha1 of Body
	Records   int
	Body      string
	FetchedAt time.Time
}
