package villas

import (
	"sort"

	"villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
)

// SearchParams describe an availability search: villas of one location that
// can host the party across every night of the stay.
type SearchParams struct {
	LocationID LocationID
	Stay       dateonly.Range
	Guests     int
}

// SearchAvailable filters the candidate villas down to those that are
// active, large enough, and free of any blocking record on every day of
// the stay. Records with IsBlocked false are annotations and do not
// exclude a villa.
func SearchAvailable(candidates []*Villa, params SearchParams, resolver schedule.Resolver) []*Villa {
	var out []*Villa
	for _, villa := range candidates {
		if villa.State != VillaActive {
			continue
		}
		if params.LocationID != "" && villa.LocationID != params.LocationID {
			continue
		}
		if params.Guests > 0 && villa.GuestsLimit < params.Guests {
			continue
		}
		if stayBlocked(villa, params.Stay, resolver) {
			continue
		}
		out = append(out, villa)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NightlyRateCents == out[j].NightlyRateCents {
			return out[i].ID < out[j].ID
		}
		return out[i].NightlyRateCents < out[j].NightlyRateCents
	})
	return out
}

func stayBlocked(villa *Villa, stay dateonly.Range, resolver schedule.Resolver) bool {
	blocked := false
	stay.Each(func(d dateonly.Date) bool {
		if res, ok := resolver.Resolve(d, string(villa.ID), string(villa.LocationID)); ok && res.Blocked {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}
