package importer

import (
	"fmt"
	"strings"

	"gopresence/internal/identity"
	"gopresence/source"
)

// Header aliases cover the English and Spanish exports of the HR systems.
var (
	employeeIDHeaders   = []string{"employeeid", "employee", "id", "codigo", "codigoempleado", "idempleado", "legajo"}
	employeeNameHeaders = []string{"name", "employeename", "fullname", "nombre", "nombrecompleto", "empleado", "colaborador"}
	areaHeaders         = []string{"area", "department", "departamento", "gerencia"}
	dayHeaders          = []string{"day", "date", "fecha", "dia"}
	entryHeaders        = []string{"entry", "entrytime", "checkin", "in", "entrada", "horaentrada", "ingreso"}
	exitHeaders         = []string{"exit", "exittime", "checkout", "out", "salida", "horasalida"}
	startHeaders        = []string{"start", "startdate", "from", "desde", "fechainicio", "inicio"}
	endHeaders          = []string{"end", "enddate", "to", "hasta", "fechafin", "fin"}
	statusHeaders       = []string{"status", "state", "estado"}
	leaveIDHeaders      = []string{"leaveemployeeid", "leaveid", "idlicencia", "idvacaciones", "employeeid", "id"}
)

type DirectoryMapper struct{}

func (m *DirectoryMapper) Name() string { return KindDirectory }

func (m *DirectoryMapper) Map(record Record, batch *Batch) (bool, error) {
	name := record.Get(employeeNameHeaders...)
	id := record.Get(employeeIDHeaders...)
	if name == "" && id == "" {
		return false, nil
	}
	batch.Directory = append(batch.Directory, source.DirectoryEntry{
		Identity:  name,
		NumericID: id,
		Area:      record.Get(areaHeaders...),
	})
	return true, nil
}

type AttendanceMapper struct{}

func (m *AttendanceMapper) Name() string { return KindAttendance }

func (m *AttendanceMapper) Map(record Record, batch *Batch) (bool, error) {
	employee := record.Get(employeeIDHeaders...)
	if employee == "" {
		employee = record.Get(employeeNameHeaders...)
	}
	if employee == "" {
		return false, nil
	}

	day, err := parseDayKey(record.Get(dayHeaders...))
	if err != nil {
		return false, fmt.Errorf("row %d: parse day: %w", record.RowNumber, err)
	}

	batch.Attendance = append(batch.Attendance, source.AttendanceRecord{
		EmployeeID: employee,
		Day:        day,
		Entry:      normalizeClockValue(record.Get(entryHeaders...)),
		Exit:       normalizeClockValue(record.Get(exitHeaders...)),
	})
	return true, nil
}

type LeaveMapper struct {
	Kind source.LeaveKind
}

func (m *LeaveMapper) Name() string {
	if m.Kind == source.LeaveMedical {
		return KindMedical
	}
	return KindVacation
}

func (m *LeaveMapper) Map(record Record, batch *Batch) (bool, error) {
	employee := record.Get(leaveIDHeaders...)
	if employee == "" {
		employee = record.Get(employeeNameHeaders...)
	}
	if employee == "" {
		return false, nil
	}

	start, err := parseDayKey(record.Get(startHeaders...))
	if err != nil {
		return false, fmt.Errorf("row %d: parse start date: %w", record.RowNumber, err)
	}
	end, err := parseDayKey(record.Get(endHeaders...))
	if err != nil {
		return false, fmt.Errorf("row %d: parse end date: %w", record.RowNumber, err)
	}
	if end < start {
		return false, fmt.Errorf("row %d: end date %s is before start date %s", record.RowNumber, end, start)
	}

	batch.Leave = append(batch.Leave, source.LeaveRange{
		EmployeeID: employee,
		Start:      start,
		End:        end,
		Status:     record.Get(statusHeaders...),
		Kind:       m.Kind,
	})
	return true, nil
}

// HomeOfficeMapper groups rows into one sheet per employee name, keeping the
// order in which employees first appear.
type HomeOfficeMapper struct{}

func (m *HomeOfficeMapper) Name() string { return KindHomeOffice }

func (m *HomeOfficeMapper) Map(record Record, batch *Batch) (bool, error) {
	name := record.Get(employeeNameHeaders...)
	if name == "" {
		return false, nil
	}

	day, err := parseDayKey(record.Get(dayHeaders...))
	if err != nil {
		return false, fmt.Errorf("row %d: parse day: %w", record.RowNumber, err)
	}

	entry := source.HomeOfficeEntry{
		Day:   day,
		Entry: normalizeClockValue(record.Get(entryHeaders...)),
		Exit:  normalizeClockValue(record.Get(exitHeaders...)),
	}

	for i := range batch.HomeOffice {
		if identity.Equal(batch.HomeOffice[i].EmployeeName, name) {
			batch.HomeOffice[i].Entries = append(batch.HomeOffice[i].Entries, entry)
			return true, nil
		}
	}
	batch.HomeOffice = append(batch.HomeOffice, source.HomeOfficeSheet{
		EmployeeName: strings.TrimSpace(name),
		Entries:      []source.HomeOfficeEntry{entry},
	})
	return true, nil
}

type LeaveOwnerMapper struct{}

func (m *LeaveOwnerMapper) Name() string { return KindLeaveOwner }

func (m *LeaveOwnerMapper) Map(record Record, batch *Batch) (bool, error) {
	leaveID := record.Get(leaveIDHeaders...)
	name := record.Get(employeeNameHeaders...)
	if leaveID == "" || name == "" {
		return false, nil
	}
	batch.LeaveOwners = append(batch.LeaveOwners, source.LeaveOwner{
		LeaveEmployeeID: leaveID,
		Identity:        name,
	})
	return true, nil
}
