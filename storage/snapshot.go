package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gopresence/internal/identity"
	"gopresence/source"
)

// ReplaceDirectory swaps the stored employee directory for entries.
func (s *SQLiteStore) ReplaceDirectory(ctx context.Context, entries []source.DirectoryEntry) (int, error) {
	inserted := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM employees;`); err != nil {
			return fmt.Errorf("clear employees: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO employees (identity_key, identity, numeric_id, area) VALUES (?, ?, ?, ?)
ON CONFLICT(identity_key) DO UPDATE SET identity = excluded.identity, numeric_id = excluded.numeric_id, area = excluded.area;`)
		if err != nil {
			return fmt.Errorf("prepare employee insert: %w", err)
		}
		defer stmt.Close()

		for _, entry := range entries {
			key := identity.Canonical(entry.Identity)
			if key == "" {
				key = identity.Canonical(entry.NumericID)
			}
			if key == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, key, strings.TrimSpace(entry.Identity), strings.TrimSpace(entry.NumericID), strings.TrimSpace(entry.Area)); err != nil {
				return fmt.Errorf("insert employee %s: %w", key, err)
			}
			inserted++
		}
		return nil
	})
	return inserted, err
}

// InsertAttendance stores raw clock records; exact duplicates are ignored.
func (s *SQLiteStore) InsertAttendance(ctx context.Context, records []source.AttendanceRecord) (int, error) {
	return s.insertEach(ctx, `
INSERT OR IGNORE INTO attendance (employee_id, day, entry_time, exit_time) VALUES (?, ?, ?, ?);`,
		len(records), func(i int) []any {
			record := records[i]
			return []any{strings.TrimSpace(record.EmployeeID), record.Day, record.Entry, record.Exit}
		})
}

// InsertLeaveRanges stores ranges; a re-imported range updates its status.
func (s *SQLiteStore) InsertLeaveRanges(ctx context.Context, ranges []source.LeaveRange) (int, error) {
	return s.insertEach(ctx, `
INSERT INTO leave_ranges (kind, employee_id, start_date, end_date, status) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(kind, employee_id, start_date, end_date) DO UPDATE SET status = excluded.status;`,
		len(ranges), func(i int) []any {
			leave := ranges[i]
			kind := leave.Kind
			if kind == "" {
				kind = source.LeaveVacation
			}
			return []any{string(kind), strings.TrimSpace(leave.EmployeeID), leave.Start, leave.End, strings.TrimSpace(leave.Status)}
		})
}

// InsertHomeOffice stores entries keyed by employee and day; later imports
// overwrite earlier ones.
func (s *SQLiteStore) InsertHomeOffice(ctx context.Context, sheets []source.HomeOfficeSheet) (int, error) {
	type row struct {
		name  string
		entry source.HomeOfficeEntry
	}
	rows := make([]row, 0, len(sheets))
	for _, sheet := range sheets {
		for _, entry := range sheet.Entries {
			rows = append(rows, row{name: strings.TrimSpace(sheet.EmployeeName), entry: entry})
		}
	}

	return s.insertEach(ctx, `
INSERT INTO home_office (employee_key, employee_name, day, entry_time, exit_time) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(employee_key, day) DO UPDATE SET employee_name = excluded.employee_name, entry_time = excluded.entry_time, exit_time = excluded.exit_time;`,
		len(rows), func(i int) []any {
			r := rows[i]
			return []any{identity.Canonical(r.name), r.name, r.entry.Day, r.entry.Entry, r.entry.Exit}
		})
}

func (s *SQLiteStore) UpsertLeaveOwners(ctx context.Context, owners []source.LeaveOwner) (int, error) {
	return s.insertEach(ctx, `
INSERT INTO leave_owners (leave_employee_id, identity, identity_key) VALUES (?, ?, ?)
ON CONFLICT(leave_employee_id) DO UPDATE SET identity = excluded.identity, identity_key = excluded.identity_key;`,
		len(owners), func(i int) []any {
			owner := owners[i]
			return []any{strings.TrimSpace(owner.LeaveEmployeeID), strings.TrimSpace(owner.Identity), identity.Canonical(owner.Identity)}
		})
}

// insertEach runs stmt for n argument lists in one transaction and returns
// how many rows were affected.
func (s *SQLiteStore) insertEach(ctx context.Context, query string, n int, args func(i int) []any) (int, error) {
	if n == 0 {
		return 0, nil
	}

	affected := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare insert statement: %w", err)
		}
		defer stmt.Close()

		for i := 0; i < n; i++ {
			res, err := stmt.ExecContext(ctx, args(i)...)
			if err != nil {
				return fmt.Errorf("insert row %d: %w", i+1, err)
			}
			if rows, err := res.RowsAffected(); err == nil && rows > 0 {
				affected++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
