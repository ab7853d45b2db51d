package engine

import "sort"

// DefaultTop is the number of ranked results shown when not specified.
const DefaultTop = 10

// EffectiveTop returns the result limit, using defaultVal if v <= 0.
func EffectiveTop(v, defaultVal int) int {
	if v <= 0 {
		return defaultVal
	}
	return v
}

// Rank sorts enriched candidates by score descending (stable, so equal
// scores keep their filter order) and trims to the top n.
func Rank(batch []Enriched, n int) []Enriched {
	out := make([]Enriched, len(batch))
	copy(out, batch)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	limit := EffectiveTop(n, DefaultTop)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
