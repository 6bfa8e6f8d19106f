package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gopresence/source"
)

var _ source.Collaborator = (*SQLiteStore)(nil)

func (s *SQLiteStore) FetchEmployeeDirectory(ctx context.Context) ([]source.DirectoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identity, numeric_id, area FROM employees ORDER BY identity_key;`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	entries := make([]source.DirectoryEntry, 0, 64)
	for rows.Next() {
		var entry source.DirectoryEntry
		if err := rows.Scan(&entry.Identity, &entry.NumericID, &entry.Area); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return entries, nil
}

// FetchAttendanceRecords returns the records of the given employee ids, or
// every record when ids is empty. Stored rows may be keyed by numeric id or by
// name; both sides are compared by canonical identity.
func (s *SQLiteStore) FetchAttendanceRecords(ctx context.Context, employeeIDs []string) ([]source.AttendanceRecord, error) {
	filter, err := s.resolveFilter(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT employee_id, day, entry_time, exit_time FROM attendance ORDER BY day, employee_id, id;`)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	records := make([]source.AttendanceRecord, 0, 256)
	for rows.Next() {
		var record source.AttendanceRecord
		if err := rows.Scan(&record.EmployeeID, &record.Day, &record.Entry, &record.Exit); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		if !filter.match(record.EmployeeID) {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) FetchApprovedVacationRanges(ctx context.Context, employeeIDs []string) ([]source.LeaveRange, error) {
	return s.fetchLeave(ctx, source.LeaveVacation, employeeIDs)
}

func (s *SQLiteStore) FetchApprovedMedicalLeaveRanges(ctx context.Context, employeeIDs []string) ([]source.LeaveRange, error) {
	return s.fetchLeave(ctx, source.LeaveMedical, employeeIDs)
}

// fetchLeave matches ranges stored under a requested employee directly or
// through a leave owner whose identity belongs to one. Approval is judged by
// the normalizer, so every stored status is returned.
func (s *SQLiteStore) fetchLeave(ctx context.Context, kind source.LeaveKind, employeeIDs []string) ([]source.LeaveRange, error) {
	filter, err := s.resolveFilter(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	const query = `
SELECT l.employee_id, l.start_date, l.end_date, l.status, COALESCE(o.identity_key, '')
FROM leave_ranges l
LEFT JOIN leave_owners o ON o.leave_employee_id = l.employee_id
WHERE l.kind = ?
ORDER BY l.start_date, l.employee_id;`

	rows, err := s.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query %s ranges: %w", kind, err)
	}
	defer rows.Close()

	ranges := make([]source.LeaveRange, 0, 32)
	for rows.Next() {
		var (
			leave    source.LeaveRange
			ownerKey string
		)
		if err := rows.Scan(&leave.EmployeeID, &leave.Start, &leave.End, &leave.Status, &ownerKey); err != nil {
			return nil, fmt.Errorf("scan %s range: %w", kind, err)
		}
		if !filter.match(leave.EmployeeID) && !(ownerKey != "" && filter.matchKey(ownerKey)) {
			continue
		}
		leave.Kind = kind
		ranges = append(ranges, leave)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s ranges: %w", kind, err)
	}
	return ranges, nil
}

// employeeFilter selects stored rows by canonical identity. A nil filter
// matches everything.
type employeeFilter struct {
	dir  *source.Directory
	keys map[string]struct{}
}

// resolveFilter resolves the requested ids through the stored directory.
// It returns nil when no ids are requested.
func (s *SQLiteStore) resolveFilter(ctx context.Context, employeeIDs []string) (*employeeFilter, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	entries, err := s.FetchEmployeeDirectory(ctx)
	if err != nil {
		return nil, err
	}

	filter := &employeeFilter{
		dir:  source.NewDirectory(entries),
		keys: make(map[string]struct{}, len(employeeIDs)),
	}
	for _, id := range employeeIDs {
		if key, _ := filter.dir.ResolveKey(id); key != "" {
			filter.keys[key] = struct{}{}
		}
	}
	return filter, nil
}

func (f *employeeFilter) match(rawID string) bool {
	if f == nil {
		return true
	}
	key, _ := f.dir.ResolveKey(rawID)
	return f.matchKey(key)
}

func (f *employeeFilter) matchKey(key string) bool {
	if f == nil {
		return true
	}
	_, ok := f.keys[key]
	return ok
}

func (s *SQLiteStore) FetchHomeOfficeEntries(ctx context.Context) ([]source.HomeOfficeSheet, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT employee_key, employee_name, day, entry_time, exit_time
FROM home_office
ORDER BY employee_key, day;`)
	if err != nil {
		return nil, fmt.Errorf("query home office: %w", err)
	}
	defer rows.Close()

	sheets := make([]source.HomeOfficeSheet, 0, 16)
	lastKey := ""
	for rows.Next() {
		var (
			key   string
			name  string
			entry source.HomeOfficeEntry
		)
		if err := rows.Scan(&key, &name, &entry.Day, &entry.Entry, &entry.Exit); err != nil {
			return nil, fmt.Errorf("scan home office: %w", err)
		}
		if len(sheets) == 0 || key != lastKey {
			sheets = append(sheets, source.HomeOfficeSheet{EmployeeName: name})
			lastKey = key
		}
		sheets[len(sheets)-1].Entries = append(sheets[len(sheets)-1].Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate home office: %w", err)
	}
	return sheets, nil
}

// LookupLeaveOwner returns an empty identity for ids without a stored owner.
func (s *SQLiteStore) LookupLeaveOwner(ctx context.Context, leaveEmployeeID string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT identity FROM leave_owners WHERE leave_employee_id = ?;`,
		strings.TrimSpace(leaveEmployeeID),
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup leave owner %s: %w", leaveEmployeeID, err)
	}
	return owner, nil
}
