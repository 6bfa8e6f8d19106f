// Package source turns raw collaborator payloads into per-employee,
// day-keyed facts ready for reconciliation.
package source

import (
	"context"
	"strings"

	"gopresence/calendar"
	"gopresence/internal/identity"
	"gopresence/internal/timeutil"
)

// Employee is a directory row that takes part in the matrix.
type Employee struct {
	Identity    string `json:"identity"`
	NumericID   string `json:"numericId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Area        string `json:"area,omitempty"`
}

// Key is the canonical identity used across all normalized maps.
func (e Employee) Key() string {
	if key := identity.Canonical(e.Identity); key != "" {
		return key
	}
	return identity.Canonical(e.NumericID)
}

func (e Employee) Name() string {
	if strings.TrimSpace(e.DisplayName) != "" {
		return strings.TrimSpace(e.DisplayName)
	}
	return strings.TrimSpace(e.Identity)
}

// DirectoryEntry is the raw shape returned by the employee directory.
type DirectoryEntry struct {
	Identity  string `json:"identity"`
	NumericID string `json:"numericId"`
	Area      string `json:"area"`
}

type AttendanceRecord struct {
	EmployeeID string `json:"employeeId"`
	Day        string `json:"day"`
	Entry      string `json:"entryTime,omitempty"`
	Exit       string `json:"exitTime,omitempty"`
}

type LeaveKind string

const (
	LeaveVacation LeaveKind = "vacation"
	LeaveMedical  LeaveKind = "medical_leave"
)

// LeaveRange is keyed by the leave system's own employee id, which may differ
// from the attendance system's identity.
type LeaveRange struct {
	EmployeeID string    `json:"employeeId"`
	Start      string    `json:"startDate"`
	End        string    `json:"endDate"`
	Status     string    `json:"status,omitempty"`
	Kind       LeaveKind `json:"kind,omitempty"`
}

// LeaveOwner maps a leave-system employee id to a directory identity.
type LeaveOwner struct {
	LeaveEmployeeID string `json:"leaveEmployeeId"`
	Identity        string `json:"identity"`
}

type HomeOfficeEntry struct {
	Day   string `json:"day"`
	Entry string `json:"entryTime,omitempty"`
	Exit  string `json:"exitTime,omitempty"`
}

type HomeOfficeSheet struct {
	EmployeeName string            `json:"employeeName"`
	Entries      []HomeOfficeEntry `json:"entries"`
}

// Collaborator is the contract of the systems that supply raw records.
type Collaborator interface {
	FetchEmployeeDirectory(ctx context.Context) ([]DirectoryEntry, error)
	FetchAttendanceRecords(ctx context.Context, employeeIDs []string) ([]AttendanceRecord, error)
	FetchApprovedVacationRanges(ctx context.Context, employeeIDs []string) ([]LeaveRange, error)
	FetchApprovedMedicalLeaveRanges(ctx context.Context, employeeIDs []string) ([]LeaveRange, error)
	FetchHomeOfficeEntries(ctx context.Context) ([]HomeOfficeSheet, error)
	// LookupLeaveOwner translates a leave-system employee id into the
	// directory identity.
	LookupLeaveOwner(ctx context.Context, leaveEmployeeID string) (string, error)
}

// AttendanceFact is the normalized clock record for one employee and day.
type AttendanceFact struct {
	Entry    timeutil.Clock
	Exit     timeutil.Clock
	HasExit  bool
	RawEntry string
	RawExit  string
}

// HomeOfficeFact keeps the raw strings; both times are optional.
type HomeOfficeFact struct {
	Entry string
	Exit  string
}

// Sources is the fully materialized input of the reconciliation engine.
// A nil map means the source was not fetched or failed.
type Sources struct {
	Attendance map[string]map[string]AttendanceFact
	Vacation   map[string]calendar.DaySet
	Medical    map[string]calendar.DaySet
	HomeOffice map[string]map[string]HomeOfficeFact
}
