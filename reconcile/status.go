package reconcile

// Kind tags a DayStatus.
type Kind string

const (
	KindAttendance   Kind = "attendance"
	KindVacation     Kind = "vacation"
	KindMedicalLeave Kind = "medical_leave"
	KindHomeOffice   Kind = "home_office"
	KindHoliday      Kind = "holiday"
	KindAbsence      Kind = "absence"
	KindNoData       Kind = "no_data"
)

// DayStatus is the single classification of one employee on one day. Entry,
// Exit, Late and LateMinutes are set for attendance (entry and exit also for
// home office); HolidayName only for holidays.
type DayStatus struct {
	Kind        Kind   `json:"kind"`
	Entry       string `json:"entry,omitempty"`
	Exit        string `json:"exit,omitempty"`
	Late        bool   `json:"late,omitempty"`
	LateMinutes int    `json:"lateMinutes,omitempty"`
	HolidayName string `json:"holidayName,omitempty"`
}

func Attendance(entry, exit string, late bool, lateMinutes int) DayStatus {
	return DayStatus{Kind: KindAttendance, Entry: entry, Exit: exit, Late: late, LateMinutes: lateMinutes}
}

func Vacation() DayStatus     { return DayStatus{Kind: KindVacation} }
func MedicalLeave() DayStatus { return DayStatus{Kind: KindMedicalLeave} }
func Absence() DayStatus      { return DayStatus{Kind: KindAbsence} }
func NoData() DayStatus       { return DayStatus{Kind: KindNoData} }

func HomeOffice(entry, exit string) DayStatus {
	return DayStatus{Kind: KindHomeOffice, Entry: entry, Exit: exit}
}

func Holiday(name string) DayStatus {
	return DayStatus{Kind: KindHoliday, HolidayName: name}
}

// Summary counts statuses for one employee over the matrix days.
type Summary struct {
	Attendance   int `json:"attendance"`
	Late         int `json:"late"`
	LateMinutes  int `json:"lateMinutes"`
	Vacation     int `json:"vacation"`
	MedicalLeave int `json:"medicalLeave"`
	HomeOffice   int `json:"homeOffice"`
	Holiday      int `json:"holiday"`
	Absence      int `json:"absence"`
	NoData       int `json:"noData"`
}

func (s *Summary) add(status DayStatus) {
	switch status.Kind {
	case KindAttendance:
		s.Attendance++
		if status.Late {
			s.Late++
			s.LateMinutes += status.LateMinutes
		}
	case KindVacation:
		s.Vacation++
	case KindMedicalLeave:
		s.MedicalLeave++
	case KindHomeOffice:
		s.HomeOffice++
	case KindHoliday:
		s.Holiday++
	case KindAbsence:
		s.Absence++
	default:
		s.NoData++
	}
}
