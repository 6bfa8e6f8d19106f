package classify

import (
	"gopresence/internal/timeutil"
	"gopresence/schedule"
)

// IsLate reports whether entry is strictly past the profile's entry time plus
// tolerance. Arriving exactly on the tolerance boundary is on time.
func IsLate(entry timeutil.Clock, profile schedule.Profile) bool {
	threshold := profile.Entry.Minutes() + profile.ToleranceMinutes
	return entry.Minutes() > threshold
}

// LateMinutes is measured from the scheduled entry time, not from the end of
// the tolerance window. It is zero whenever IsLate is false.
func LateMinutes(entry timeutil.Clock, profile schedule.Profile) int {
	if !IsLate(entry, profile) {
		return 0
	}
	return entry.Minutes() - profile.Entry.Minutes()
}
