package report

// Cucumber JSON as written by Karate and other cucumber compatible runners.

type Feature struct {
	ID       string    `json:"id"`
	URI      string    `json:"uri"`
	Name     string    `json:"name"`
	Elements []Element `json:"elements"`
}

type Element struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Line   int    `json:"line"`
	Tags   []Tag  `json:"tags"`
	Before []Hook `json:"before"`
	Steps  []Step `json:"steps"`
	After  []Hook `json:"after"`
}

type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

type Hook struct {
	Result StepResult `json:"result"`
}

type Step struct {
	Keyword   string     `json:"keyword"`
	Name      string     `json:"name"`
	Line      int        `json:"line"`
	Result    StepResult `json:"result"`
	DocString *DocString `json:"doc_string,omitempty"`
}

type DocString struct {
	ContentType string `json:"content_type"`
	Value       string `json:"value"`
	Line        int    `json:"line"`
}

type StepResult struct {
	// Duration in nanoseconds.
	Duration     int64  `json:"duration"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Outcome statuses.
const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusPending   = "pending"
	StatusUndefined = "undefined"
)

// Result is the outcome of one test case.
type Result struct {
	// Duration in milliseconds, nil when the report carried none.
	Duration *int64
	Status   string
	Message  string
}

// Entry is the outcome of one TestRail case.
type Entry struct {
	CaseID string
	Result Result
}

// Set maps case ids to entries. Keys are unique for one synchronization pass.
type Set map[string]*Entry
