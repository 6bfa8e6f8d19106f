package calendar

import "sort"

// DaySet is a set of day-keys.
type DaySet map[string]struct{}

func (s DaySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s DaySet) Add(key string) { s[key] = struct{}{} }

func (s DaySet) Union(other DaySet) {
	for key := range other {
		s[key] = struct{}{}
	}
}

// Keys returns the day-keys in calendar order.
func (s DaySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ExpandRange returns the days of the inclusive range [start, end] that fall
// inside month. Malformed bounds or an inverted range yield an empty set.
func ExpandRange(start, end string, month Month) DaySet {
	out := make(DaySet)

	from, err := ParseDay(start)
	if err != nil {
		return out
	}
	to, err := ParseDay(end)
	if err != nil {
		return out
	}
	if to.Before(from) {
		return out
	}

	// Clip to the month first so long ranges do not walk years of days.
	if first := month.First(); from.Before(first) {
		from = first
	}
	if last := month.Last(); to.After(last) {
		to = last
	}

	for current := from; !current.After(to); current = current.AddDays(1) {
		if month.Contains(current) {
			out.Add(current.Key())
		}
	}
	return out
}
