package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gopresence/calendar"
	"gopresence/workpool"
)

// Failure records a fetch that contributed nothing. It never aborts a run.
type Failure struct {
	Source     Kind
	EmployeeID string
	Err        error
}

func (f Failure) Error() string {
	if f.EmployeeID == "" {
		return fmt.Sprintf("%s: %v", f.Source, f.Err)
	}
	return fmt.Sprintf("%s for %s: %v", f.Source, f.EmployeeID, f.Err)
}

// Result is everything the engine needs for one month.
type Result struct {
	RunID     string
	Employees []Employee
	Directory *Directory
	Sources   Sources
	Failures  []Failure
}

// Gatherer fetches raw sources from a collaborator and normalizes them.
type Gatherer struct {
	client  Collaborator
	pool    *workpool.Pool
	options Options
	include Set
	area    string
	logger  *zap.Logger
}

type GathererOption func(*Gatherer)

func WithOptions(options Options) GathererOption {
	return func(g *Gatherer) { g.options = options }
}

// WithSources restricts fetching to the selected sources.
func WithSources(include Set) GathererOption {
	return func(g *Gatherer) { g.include = include }
}

// WithArea limits Gather to the directory employees of one area.
func WithArea(area string) GathererOption {
	return func(g *Gatherer) { g.area = strings.TrimSpace(area) }
}

func WithLogger(logger *zap.Logger) GathererOption {
	return func(g *Gatherer) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGatherer(client Collaborator, pool *workpool.Pool, opts ...GathererOption) *Gatherer {
	g := &Gatherer{
		client:  client,
		pool:    pool,
		include: AllSources(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.pool == nil {
		g.pool = workpool.New(workpool.DefaultLimit, g.logger)
	}
	g.logger = g.logger.Named("gatherer")
	return g
}

// Gather loads the employee directory and every selected source for month.
// Only a failing directory fetch is an error; source failures are reported
// in Result.Failures and leave that source empty. The directory index keeps
// every employee so identities outside the area still resolve.
func (g *Gatherer) Gather(ctx context.Context, month calendar.Month) (*Result, error) {
	entries, err := g.client.FetchEmployeeDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch employee directory: %w", err)
	}
	return g.GatherFor(ctx, FilterByArea(Employees(entries), g.area), NewDirectory(entries), month), nil
}

// GatherFor fetches sources for a known set of employees.
func (g *Gatherer) GatherFor(ctx context.Context, employees []Employee, dir *Directory, month calendar.Month) *Result {
	result := &Result{
		RunID:     uuid.NewString(),
		Employees: employees,
		Directory: dir,
	}
	logger := g.logger.With(zap.String("run_id", result.RunID), zap.String("month", month.Key()))
	logger.Info("gathering sources", zap.Int("employees", len(employees)), zap.Strings("sources", g.include.Names()))

	ids := make([]string, 0, len(employees))
	for _, employee := range employees {
		ids = append(ids, fetchID(employee))
	}

	if g.include.Attendance {
		records, err := g.client.FetchAttendanceRecords(ctx, ids)
		if err != nil {
			result.fail(logger, Failure{Source: KindAttendance, Err: err})
		} else {
			result.Sources.Attendance = NormalizeAttendance(records, dir, month, g.options)
		}
	}

	if g.include.Vacation || g.include.Medical {
		vacation, medical := g.fetchLeave(ctx, logger, employees, result)
		resolve := g.resolveOwners(ctx, logger, dir, append(append([]LeaveRange(nil), vacation...), medical...))
		if g.include.Vacation {
			result.Sources.Vacation = NormalizeLeave(vacation, resolve, month, g.options)
		}
		if g.include.Medical {
			result.Sources.Medical = NormalizeLeave(medical, resolve, month, g.options)
		}
	}

	if g.include.HomeOffice {
		sheets, err := g.client.FetchHomeOfficeEntries(ctx)
		if err != nil {
			result.fail(logger, Failure{Source: KindHomeOffice, Err: err})
		} else {
			result.Sources.HomeOffice = NormalizeHomeOffice(sheets, dir, month)
		}
	}

	logger.Info("sources gathered", zap.Int("failures", len(result.Failures)))
	return result
}

type leaveBatch struct {
	kind   Kind
	ranges []LeaveRange
}

// fetchLeave asks for each employee's leave separately so one failing
// employee or source leaves the others intact.
func (g *Gatherer) fetchLeave(ctx context.Context, logger *zap.Logger, employees []Employee, result *Result) ([]LeaveRange, []LeaveRange) {
	items := make([]workpool.Item[leaveBatch], 0, 2*len(employees))
	for _, employee := range employees {
		id := fetchID(employee)
		if g.include.Vacation {
			items = append(items, workpool.Item[leaveBatch]{
				ID: string(KindVacation) + ":" + id,
				Execute: func(ctx context.Context) (leaveBatch, error) {
					ranges, err := g.client.FetchApprovedVacationRanges(ctx, []string{id})
					return leaveBatch{kind: KindVacation, ranges: ownedBy(ranges, id, KindVacation)}, err
				},
			})
		}
		if g.include.Medical {
			items = append(items, workpool.Item[leaveBatch]{
				ID: string(KindMedical) + ":" + id,
				Execute: func(ctx context.Context) (leaveBatch, error) {
					ranges, err := g.client.FetchApprovedMedicalLeaveRanges(ctx, []string{id})
					return leaveBatch{kind: KindMedical, ranges: ownedBy(ranges, id, KindMedical)}, err
				},
			})
		}
	}

	var vacation, medical []LeaveRange
	for _, res := range workpool.Run(ctx, g.pool, items) {
		kind, employeeID, _ := strings.Cut(res.ID, ":")
		if res.Err != nil {
			result.fail(logger, Failure{Source: Kind(kind), EmployeeID: employeeID, Err: res.Err})
			continue
		}
		switch res.Value.kind {
		case KindVacation:
			vacation = append(vacation, res.Value.ranges...)
		case KindMedical:
			medical = append(medical, res.Value.ranges...)
		}
	}
	return vacation, medical
}

// resolveOwners translates distinct leave-system ids the local directory
// cannot resolve through the collaborator's owner lookup. A failed or empty
// lookup keeps the raw id.
func (g *Gatherer) resolveOwners(ctx context.Context, logger *zap.Logger, dir *Directory, ranges []LeaveRange) func(string) string {
	distinct := make([]string, 0, len(ranges))
	seen := make(map[string]struct{}, len(ranges))
	for _, leave := range ranges {
		id := strings.TrimSpace(leave.EmployeeID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, known := dir.ResolveKey(id); known {
			continue
		}
		distinct = append(distinct, id)
	}

	items := make([]workpool.Item[string], 0, len(distinct))
	for _, id := range distinct {
		items = append(items, workpool.Item[string]{
			ID: id,
			Execute: func(ctx context.Context) (string, error) {
				return g.client.LookupLeaveOwner(ctx, id)
			},
		})
	}

	owners := make(map[string]string, len(distinct))
	for _, res := range workpool.Run(ctx, g.pool, items) {
		if res.Err != nil {
			logger.Warn("leave owner lookup failed, keeping raw identity", zap.String("leave_employee_id", res.ID), zap.Error(res.Err))
			continue
		}
		if strings.TrimSpace(res.Value) == "" {
			continue
		}
		key, _ := dir.ResolveKey(res.Value)
		owners[res.ID] = key
	}

	return func(leaveEmployeeID string) string {
		id := strings.TrimSpace(leaveEmployeeID)
		if key, ok := owners[id]; ok {
			return key
		}
		key, _ := dir.ResolveKey(id)
		return key
	}
}

func (r *Result) fail(logger *zap.Logger, failure Failure) {
	r.Failures = append(r.Failures, failure)
	logger.Warn("source fetch failed",
		zap.String("source", string(failure.Source)),
		zap.String("employee_id", failure.EmployeeID),
		zap.Error(failure.Err),
	)
}

// ownedBy stamps ranges that came back without an owner with the id they
// were requested for.
func ownedBy(ranges []LeaveRange, id string, kind Kind) []LeaveRange {
	out := make([]LeaveRange, 0, len(ranges))
	for _, leave := range ranges {
		if strings.TrimSpace(leave.EmployeeID) == "" {
			leave.EmployeeID = id
		}
		if leave.Kind == "" {
			leave.Kind = LeaveKind(kind)
		}
		out = append(out, leave)
	}
	return out
}

func fetchID(employee Employee) string {
	if id := strings.TrimSpace(employee.NumericID); id != "" {
		return id
	}
	return strings.TrimSpace(employee.Identity)
}
