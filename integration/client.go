package integration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v2/"

// Client talks to the TestRail REST API v2.
type Client struct {
	BaseURL *url.URL
	User    string
	Key     string

	httpClient *http.Client
	l          *zap.SugaredLogger
}

// NewHTTPClient returns a client retrying failed requests up to retries times.
// Non-2xx answers are handed back to the caller once retries are exhausted.
func NewHTTPClient(retries int, l *zap.SugaredLogger) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.Logger = leveledLogger{l: l}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

func New(baseUrl string, cred Credential, client *http.Client, l *zap.SugaredLogger) (*Client, error) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	if client == nil {
		client = NewHTTPClient(0, l)
	}
	u, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid testrail url %q: %w", baseUrl, err)
	}
	return &Client{
		BaseURL:    u,
		User:       cred.User,
		Key:        cred.Key,
		httpClient: client,
		l:          l,
	}, nil
}

// GetProject returns the project named exactly name.
func (c *Client) GetProject(ctx context.Context, name string) (*Project, error) {
	projects, err := getAll[Project](ctx, c, "get_projects", "projects")
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Name == name {
			c.l.Debugf("project %q has id %d", name, p.ID)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
}

func (c *Client) GetRuns(ctx context.Context, projectID int) ([]Run, error) {
	runs, err := getAll[Run](ctx, c, fmt.Sprintf("get_runs/%d", projectID), "runs")
	if err != nil {
		return nil, err
	}
	c.l.Debugf("project %d has %d runs", projectID, len(runs))
	return runs, nil
}

// AddRun creates an empty run; cases are attached with AddCaseToRun. suiteID
// is only sent when non-zero, projects in multiple suite mode require it.
func (c *Client) AddRun(ctx context.Context, projectID, suiteID int, name string) (*Run, error) {
	p := AddRunPayload{SuiteID: suiteID, Name: name, IncludeAll: false, CaseIDs: []int{}}
	req, err := c.newRequest(ctx, http.MethodPost, apiPrefix+fmt.Sprintf("add_run/%d", projectID), p)
	if err != nil {
		return nil, err
	}
	c.l.Debugw("creating test run", "project", projectID, "suite", suiteID, "name", name)
	var run Run
	if _, err := c.do(req, &run); err != nil {
		return nil, err
	}
	c.l.Infof("test run %q created with id %d", run.Name, run.ID)
	return &run, nil
}

func (c *Client) GetCase(ctx context.Context, caseID int) (*Case, error) {
	req, err := c.newRequest(ctx, http.MethodGet, apiPrefix+fmt.Sprintf("get_case/%d", caseID), nil)
	if err != nil {
		return nil, err
	}
	var tc Case
	if _, err := c.do(req, &tc); err != nil {
		return nil, err
	}
	c.l.Debugf("get test case result: %d %q", tc.ID, tc.Title)
	return &tc, nil
}

// AddCaseToRun makes sure the run contains caseID. Calling it for a case the
// run already holds sends no update.
func (c *Client) AddCaseToRun(ctx context.Context, runID, caseID int) error {
	tests, err := getAll[Test](ctx, c, fmt.Sprintf("get_tests/%d", runID), "tests")
	if err != nil {
		return err
	}
	ids := make([]int, 0, len(tests)+1)
	for _, t := range tests {
		if t.CaseID == caseID {
			c.l.Debugf("case %d already in run %d", caseID, runID)
			return nil
		}
		ids = append(ids, t.CaseID)
	}
	ids = append(ids, caseID)
	req, err := c.newRequest(ctx, http.MethodPost, apiPrefix+fmt.Sprintf("update_run/%d", runID), UpdateRunPayload{CaseIDs: ids})
	if err != nil {
		return err
	}
	if _, err := c.do(req, nil); err != nil {
		return err
	}
	c.l.Debugf("case %d added to run %d", caseID, runID)
	return nil
}

func (c *Client) AddResultForCase(ctx context.Context, runID, caseID int, status, comment string, elapsed time.Duration) (*TestResult, error) {
	p := AddResultPayload{
		StatusID: StatusID(status),
		Comment:  comment,
		Elapsed:  Elapsed(elapsed),
	}
	req, err := c.newRequest(ctx, http.MethodPost, apiPrefix+fmt.Sprintf("add_result_for_case/%d/%d", runID, caseID), p)
	if err != nil {
		return nil, err
	}
	var tr TestResult
	if _, err := c.do(req, &tr); err != nil {
		return nil, err
	}
	c.l.Debugw("result added", "run", runID, "case", caseID, "status", status, "result", tr.ID)
	return &tr, nil
}

// getAll follows the _links.next chain of a paginated list endpoint. Older
// TestRail versions answer with a bare array, which is accepted as one page.
func getAll[T any](ctx context.Context, c *Client, path, field string) ([]T, error) {
	var all []T
	next := apiPrefix + path
	for next != "" {
		req, err := c.newRequest(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if _, err := c.do(req, &raw); err != nil {
			return nil, err
		}
		next = ""
		var items []T
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		} else {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
			if list, ok := fields[field]; ok {
				if err := json.Unmarshal(list, &items); err != nil {
					return nil, fmt.Errorf("failed to decode %s: %w", path, err)
				}
			}
			var p page
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
			if p.Links.Next != nil {
				next = *p.Links.Next
			}
		}
		all = append(all, items...)
	}
	return all, nil
}

// newRequest builds a request for query, the part after "index.php?", such as
// "/api/v2/get_case/1".
func (c *Client) newRequest(ctx context.Context, method, query string, body interface{}) (*http.Request, error) {
	u := *c.BaseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/index.php"
	u.RawQuery = query
	var buf io.ReadWriter
	if body != nil {
		buf = new(bytes.Buffer)
		err := json.NewEncoder(buf).Encode(body)
		if err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.BasicAuth())
	return req, nil
}

func (c *Client) do(req *http.Request, v interface{}) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		bb, _ := io.ReadAll(resp.Body)
		c.l.Errorf("request failed: status: %s, body: %s", resp.Status, string(bb))
		return nil, &ResponseError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(bb),
		}
	}
	if v != nil {
		err = json.NewDecoder(resp.Body).Decode(v)
	}
	return resp, err
}

func (c *Client) BasicAuth() string {
	b64 := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", c.User, c.Key)))
	return fmt.Sprintf("Basic %s", b64)
}

// StatusID maps a report status onto a TestRail status id. Statuses TestRail
// has no equivalent for are sent as retest.
func StatusID(status string) int {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "passed":
		return StatusPassed
	case "blocked":
		return StatusBlocked
	case "untested":
		return StatusUntested
	case "failed":
		return StatusFailed
	default:
		return StatusRetest
	}
}

// Elapsed renders d as TestRail timespan in whole seconds, rounded up. Zero
// yields "" so the field is omitted.
func Elapsed(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return fmt.Sprintf("%ds", int64(math.Ceil(d.Seconds())))
}
