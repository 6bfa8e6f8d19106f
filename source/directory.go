package source

import (
	"strings"

	"gopresence/internal/identity"
)

// Directory indexes directory rows by numeric id and canonical name.
type Directory struct {
	byID   map[string]DirectoryEntry
	byName map[string]DirectoryEntry
}

func NewDirectory(entries []DirectoryEntry) *Directory {
	d := &Directory{
		byID:   make(map[string]DirectoryEntry, len(entries)),
		byName: make(map[string]DirectoryEntry, len(entries)),
	}
	for _, entry := range entries {
		if id := strings.TrimSpace(entry.NumericID); id != "" {
			d.byID[id] = entry
		}
		if key := identity.Canonical(entry.Identity); key != "" {
			d.byName[key] = entry
		}
	}
	return d
}

// ResolveKey maps a raw identity (numeric id or name) to the canonical name
// key. Unknown values come back canonicalized with ok=false so callers can
// still key the record by its raw identity.
func (d *Directory) ResolveKey(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if d != nil {
		if entry, ok := d.byID[trimmed]; ok {
			if key := identity.Canonical(entry.Identity); key != "" {
				return key, true
			}
		}
		if _, ok := d.byName[identity.Canonical(trimmed)]; ok {
			return identity.Canonical(trimmed), true
		}
	}
	return identity.Canonical(trimmed), false
}

// Employees returns the directory rows as matrix employees, in input order.
func Employees(entries []DirectoryEntry) []Employee {
	out := make([]Employee, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		employee := Employee{
			Identity:  strings.TrimSpace(entry.Identity),
			NumericID: strings.TrimSpace(entry.NumericID),
			Area:      strings.TrimSpace(entry.Area),
		}
		key := employee.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, employee)
	}
	return out
}

// FilterByArea keeps employees whose area matches area case-insensitively.
// An empty area keeps everyone.
func FilterByArea(employees []Employee, area string) []Employee {
	if strings.TrimSpace(area) == "" {
		return employees
	}
	out := make([]Employee, 0, len(employees))
	for _, employee := range employees {
		if identity.Equal(employee.Area, area) {
			out = append(out, employee)
		}
	}
	return out
}
