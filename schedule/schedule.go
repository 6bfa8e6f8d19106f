// Package schedule resolves employees to their expected entry time.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"gopresence/internal/identity"
	"gopresence/internal/timeutil"
)

var (
	ErrNoFallback       = errors.New("schedule: no fallback group configured")
	ErrMultipleFallback = errors.New("schedule: more than one fallback group configured")
)

// Profile is the expected entry time plus the grace minutes before an
// arrival counts as late.
type Profile struct {
	Entry            timeutil.Clock
	ToleranceMinutes int
}

func (p Profile) String() string {
	return fmt.Sprintf("%s+%dm", p.Entry, p.ToleranceMinutes)
}

// Group is a named profile with its statically assigned members. Members are
// matched by canonical identity only.
type Group struct {
	Name     string
	Profile  Profile
	Members  []string
	Fallback bool
}

// Conflict records an employee listed in more than one non-fallback group.
// The earlier group wins.
type Conflict struct {
	Identity string
	Kept     string
	Ignored  string
}

type resolvedGroup struct {
	name    string
	profile Profile
	members map[string]struct{}
}

// Registry is immutable after NewRegistry.
type Registry struct {
	groups    []resolvedGroup
	fallback  resolvedGroup
	conflicts []Conflict
}

func NewRegistry(groups []Group) (*Registry, error) {
	registry := &Registry{}
	fallbackSeen := false
	owner := make(map[string]string)

	for i, group := range groups {
		name := strings.TrimSpace(group.Name)
		if name == "" {
			name = fmt.Sprintf("group-%d", i+1)
		}
		if group.Profile.ToleranceMinutes < 0 {
			return nil, fmt.Errorf("schedule group %q: tolerance must not be negative", name)
		}

		resolved := resolvedGroup{
			name:    name,
			profile: group.Profile,
			members: make(map[string]struct{}, len(group.Members)),
		}

		if group.Fallback {
			if fallbackSeen {
				return nil, fmt.Errorf("%w: %q", ErrMultipleFallback, name)
			}
			fallbackSeen = true
			registry.fallback = resolved
			continue
		}

		for _, member := range group.Members {
			key := identity.Canonical(member)
			if key == "" {
				continue
			}
			if previous, taken := owner[key]; taken {
				if previous != name {
					registry.conflicts = append(registry.conflicts, Conflict{Identity: key, Kept: previous, Ignored: name})
				}
				continue
			}
			owner[key] = name
			resolved.members[key] = struct{}{}
		}
		registry.groups = append(registry.groups, resolved)
	}

	if !fallbackSeen {
		return nil, ErrNoFallback
	}
	return registry, nil
}

// Resolve never fails: employees outside every explicit group get the
// fallback profile.
func (r *Registry) Resolve(employee string) Profile {
	profile, _ := r.ResolveGroup(employee)
	return profile
}

// ResolveGroup also returns the name of the matching group.
func (r *Registry) ResolveGroup(employee string) (Profile, string) {
	key := identity.Canonical(employee)
	for _, group := range r.groups {
		if _, ok := group.members[key]; ok {
			return group.profile, group.name
		}
	}
	return r.fallback.profile, r.fallback.name
}

func (r *Registry) Conflicts() []Conflict {
	return append([]Conflict(nil), r.conflicts...)
}

// GroupNames lists groups in resolution order, fallback last.
func (r *Registry) GroupNames() []string {
	names := make([]string, 0, len(r.groups)+1)
	for _, group := range r.groups {
		names = append(names, group.name)
	}
	return append(names, r.fallback.name)
}
