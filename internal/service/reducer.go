package service

import "github.com/wastewatch/bin-fleet-monitor/internal/domain"

// LatestPerDevice collapses a raw reading snapshot into one current state per
// device id, chosen by maximal parsed timestamp. Pure function of its input.
//
// Comparison is on parsed time values only: a reading whose timestamp failed
// to parse compares as older and never displaces an entry that has a valid
// timestamp. Readings with equal timestamps resolve last-seen-wins in input
// order; that is a deliberately weak tie-break, not an ordering guarantee.
// Output preserves first-seen device order so callers get stable results.
func LatestPerDevice(readings []domain.Reading) []domain.DeviceState {
	best := make(map[string]int, len(readings))
	order := make([]string, 0, len(readings))

	for i, rd := range readings {
		held, seen := best[rd.DeviceID]
		if !seen {
			best[rd.DeviceID] = i
			order = append(order, rd.DeviceID)
			continue
		}
		if newerOrTied(rd.Timestamp, readings[held].Timestamp) {
			best[rd.DeviceID] = i
		}
	}

	out := make([]domain.DeviceState, 0, len(order))
	for _, id := range order {
		out = append(out, readings[best[id]])
	}
	return out
}

func newerOrTied(candidate, held domain.Timestamp) bool {
	if candidate.IsZero() {
		// Unparsable timestamps only ever win against other unparsable ones.
		return held.IsZero()
	}
	if held.IsZero() {
		return true
	}
	return !candidate.Before(held.Time)
}
