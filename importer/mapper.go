package importer

import (
	"fmt"

	"gopresence/source"
)

// Batch collects the rows of one import run, grouped by destination table.
type Batch struct {
	Directory   []source.DirectoryEntry
	Attendance  []source.AttendanceRecord
	Leave       []source.LeaveRange
	HomeOffice  []source.HomeOfficeSheet
	LeaveOwners []source.LeaveOwner
}

func (b *Batch) Len() int {
	entries := 0
	for _, sheet := range b.HomeOffice {
		entries += len(sheet.Entries)
	}
	return len(b.Directory) + len(b.Attendance) + len(b.Leave) + entries + len(b.LeaveOwners)
}

// Mapper turns one raw row into batch content. ok=false skips the row.
type Mapper interface {
	Name() string
	Map(record Record, batch *Batch) (bool, error)
}

const (
	KindDirectory  = "directory"
	KindAttendance = "attendance"
	KindVacation   = "vacation"
	KindMedical    = "medical"
	KindHomeOffice = "home_office"
	KindLeaveOwner = "leave_owner"
)

func SupportedKinds() []string {
	return []string{KindDirectory, KindAttendance, KindVacation, KindMedical, KindHomeOffice, KindLeaveOwner}
}

func MapperForKind(kind string) (Mapper, error) {
	switch normalizeHeader(kind) {
	case "directory", "employees":
		return &DirectoryMapper{}, nil
	case "attendance":
		return &AttendanceMapper{}, nil
	case "vacation", "vacations":
		return &LeaveMapper{Kind: source.LeaveVacation}, nil
	case "medical", "medicalleave":
		return &LeaveMapper{Kind: source.LeaveMedical}, nil
	case "homeoffice":
		return &HomeOfficeMapper{}, nil
	case "leaveowner", "leaveowners":
		return &LeaveOwnerMapper{}, nil
	default:
		return nil, fmt.Errorf("unsupported import kind: %s", kind)
	}
}
