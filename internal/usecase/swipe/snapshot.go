package swipe

import "sort"

// Snapshot is a read-only copy of the swipe session state.
// SentInterestIDs and SendingInterestIDs are disjoint at rest: an id moves
// from sending to sent only when the interest port call succeeds.
type Snapshot struct {
	CurrentIndex       int
	SentInterestIDs    []string
	SendingInterestIDs []string
	PassedIDs          []string
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
