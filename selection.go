package main

import (
	"fmt"
	"slices"
)

// ── Multi-Select Helpers ───────────────────────────────────────────

// toggleID removes id when present and appends it otherwise. The input
// slice is never modified, so drafts handed out earlier stay intact.
func toggleID(list []string, id string) []string {
	if i := slices.Index(list, id); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), id)
}

func containsID(list []string, id string) bool {
	return slices.Contains(list, id)
}

// badgeRow keeps the first limit labels and appends a "+K" overflow marker
// when K labels were cut.
func badgeRow(labels []string, limit int) []string {
	if len(labels) <= limit {
		return slices.Clone(labels)
	}
	out := slices.Clone(labels[:limit])
	return append(out, fmt.Sprintf("+%d", len(labels)-limit))
}
