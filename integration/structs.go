package integration

type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"is_completed"`
	SuiteMode   int    `json:"suite_mode"`
}

type Run struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProjectID   int    `json:"project_id"`
	SuiteID     int    `json:"suite_id"`
	IsCompleted bool   `json:"is_completed"`
	URL         string `json:"url"`
}

type Case struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	SectionID int    `json:"section_id"`
	SuiteID   int    `json:"suite_id"`
}

type Test struct {
	ID       int `json:"id"`
	CaseID   int `json:"case_id"`
	RunID    int `json:"run_id"`
	StatusID int `json:"status_id"`
}

type AddRunPayload struct {
	SuiteID    int    `json:"suite_id,omitempty"`
	Name       string `json:"name"`
	IncludeAll bool   `json:"include_all"`
	CaseIDs    []int  `json:"case_ids"`
}

type UpdateRunPayload struct {
	IncludeAll bool  `json:"include_all"`
	CaseIDs    []int `json:"case_ids"`
}

type AddResultPayload struct {
	StatusID int    `json:"status_id"`
	Comment  string `json:"comment,omitempty"`
	Elapsed  string `json:"elapsed,omitempty"`
}

type TestResult struct {
	ID       int    `json:"id"`
	TestID   int    `json:"test_id"`
	StatusID int    `json:"status_id"`
	Comment  string `json:"comment"`
}

// page is the envelope of paginated list endpoints.
type page struct {
	Links struct {
		Next *string `json:"next"`
	} `json:"_links"`
}

// Project suite modes.
const (
	SuiteModeSingle         = 1
	SuiteModeSingleBaseline = 2
	SuiteModeMultiple       = 3
)

// Result status ids.
const (
	StatusPassed   = 1
	StatusBlocked  = 2
	StatusUntested = 3
	StatusRetest   = 4
	StatusFailed   = 5
)
