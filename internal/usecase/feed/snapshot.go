package feed

import "github.com/amora-labs/amora/internal/domain/profile"

// Snapshot is a read-only copy of the feed state at one point in time.
// The engine hands these out; callers never mutate engine state directly.
type Snapshot struct {
	Query         string
	Items         []profile.Summary
	IsLoading     bool
	IsLoadingMore bool
	HasMore       bool
	Cursor        string
	ErrorMessage  string
	InfoMessage   string
}
