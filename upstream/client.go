// Package upstream talks to the HR service that owns the employee directory,
// clock records, leave and home office sheets.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopresence/source"
)

var _ source.Collaborator = (*HTTPClient)(nil)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient httpDoer
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "gopresence"
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		userAgent:  userAgent,
		httpClient: doer,
	}, nil
}

// FlexibleID accepts ids sent as JSON numbers or strings.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch text {
	case "", "null", `""`:
		*id = ""
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		*id = FlexibleID(number.String())
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*id = FlexibleID(strings.TrimSpace(asString))
		return nil
	}

	return fmt.Errorf("unsupported id value %q", text)
}

type employeeDTO struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
	Area string     `json:"area"`
}

type attendanceDTO struct {
	EmployeeID FlexibleID `json:"employeeId"`
	Date       string     `json:"date"`
	EntryTime  string     `json:"entryTime"`
	ExitTime   string     `json:"exitTime"`
}

type leaveDTO struct {
	EmployeeID FlexibleID `json:"employeeId"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	Status     string     `json:"status"`
}

type homeOfficeDTO struct {
	EmployeeName string `json:"employeeName"`
	Entries      []struct {
		Date      string `json:"date"`
		EntryTime string `json:"entryTime"`
		ExitTime  string `json:"exitTime"`
	} `json:"entries"`
}

type employeeIDsRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
}

func (c *HTTPClient) FetchEmployeeDirectory(ctx context.Context) ([]source.DirectoryEntry, error) {
	var out []employeeDTO
	if err := c.doJSON(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}
	entries := make([]source.DirectoryEntry, 0, len(out))
	for _, employee := range out {
		entries = append(entries, source.DirectoryEntry{
			Identity:  employee.Name,
			NumericID: string(employee.ID),
			Area:      employee.Area,
		})
	}
	return entries, nil
}

func (c *HTTPClient) FetchAttendanceRecords(ctx context.Context, employeeIDs []string) ([]source.AttendanceRecord, error) {
	var out struct {
		Records []attendanceDTO `json:"records"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/attendance/search", employeeIDsRequest{EmployeeIDs: employeeIDs}, &out); err != nil {
		return nil, err
	}
	records := make([]source.AttendanceRecord, 0, len(out.Records))
	for _, record := range out.Records {
		records = append(records, source.AttendanceRecord{
			EmployeeID: string(record.EmployeeID),
			Day:        record.Date,
			Entry:      record.EntryTime,
			Exit:       record.ExitTime,
		})
	}
	return records, nil
}

func (c *HTTPClient) FetchApprovedVacationRanges(ctx context.Context, employeeIDs []string) ([]source.LeaveRange, error) {
	return c.fetchLeave(ctx, "/leave/vacation/search", source.LeaveVacation, employeeIDs)
}

func (c *HTTPClient) FetchApprovedMedicalLeaveRanges(ctx context.Context, employeeIDs []string) ([]source.LeaveRange, error) {
	return c.fetchLeave(ctx, "/leave/medical/search", source.LeaveMedical, employeeIDs)
}

func (c *HTTPClient) fetchLeave(ctx context.Context, path string, kind source.LeaveKind, employeeIDs []string) ([]source.LeaveRange, error) {
	var out []leaveDTO
	if err := c.doJSON(ctx, http.MethodPost, path, employeeIDsRequest{EmployeeIDs: employeeIDs}, &out); err != nil {
		return nil, err
	}
	ranges := make([]source.LeaveRange, 0, len(out))
	for _, leave := range out {
		ranges = append(ranges, source.LeaveRange{
			EmployeeID: string(leave.EmployeeID),
			Start:      leave.StartDate,
			End:        leave.EndDate,
			Status:     leave.Status,
			Kind:       kind,
		})
	}
	return ranges, nil
}

func (c *HTTPClient) FetchHomeOfficeEntries(ctx context.Context) ([]source.HomeOfficeSheet, error) {
	var out []homeOfficeDTO
	if err := c.doJSON(ctx, http.MethodGet, "/home-office", nil, &out); err != nil {
		return nil, err
	}
	sheets := make([]source.HomeOfficeSheet, 0, len(out))
	for _, sheet := range out {
		entries := make([]source.HomeOfficeEntry, 0, len(sheet.Entries))
		for _, entry := range sheet.Entries {
			entries = append(entries, source.HomeOfficeEntry{Day: entry.Date, Entry: entry.EntryTime, Exit: entry.ExitTime})
		}
		sheets = append(sheets, source.HomeOfficeSheet{EmployeeName: sheet.EmployeeName, Entries: entries})
	}
	return sheets, nil
}

// LookupLeaveOwner asks the directory for the owner of a leave-system id. An
// unknown id yields an empty identity.
func (c *HTTPClient) LookupLeaveOwner(ctx context.Context, leaveEmployeeID string) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	path := "/employees/lookup?leaveEmployeeId=" + url.QueryEscape(strings.TrimSpace(leaveEmployeeID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out.Name), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpointPath, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Method:     method,
			Path:       endpointPath,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
