// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pbear

import (
	"strconv"
	"strings"
)

// VoterGroup is a run of identical voters, used for display only
type VoterGroup struct {
	Count   int
	Weight  float64
	Ranking []string
}

// SummarizeGroups folds voters with the same weight and ranking back into
// groups, in order of first appearance.
func SummarizeGroups(inst *Instance) []VoterGroup {
	index := make(map[string]int)
	var groups []VoterGroup

	for _, v := range inst.voters {
		var key strings.Builder
		key.WriteString(strconv.FormatFloat(v.Weight, 'g', -1, 64))
		for _, id := range v.Ranking {
			key.WriteByte('|')
			key.WriteString(strconv.Itoa(int(id)))
		}

		if i, ok := index[key.String()]; ok {
			groups[i].Count++
			continue
		}
		index[key.String()] = len(groups)
		groups = append(groups, VoterGroup{
			Count:   1,
			Weight:  v.Weight,
			Ranking: inst.names(v.Ranking),
		})
	}
	return groups
}
