package integration

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/f4hrenh9it/go-testrail/config"
	"github.com/f4hrenh9it/go-testrail/report"
)

// TestRail is the part of the TestRail API a synchronization pass needs.
type TestRail interface {
	RunLister
	GetProject(ctx context.Context, name string) (*Project, error)
	AddRun(ctx context.Context, projectID, suiteID int, name string) (*Run, error)
	GetCase(ctx context.Context, caseID int) (*Case, error)
	AddCaseToRun(ctx context.Context, runID, caseID int) error
	AddResultForCase(ctx context.Context, runID, caseID int, status, comment string, elapsed time.Duration) (*TestResult, error)
}

// ReportLoader produces the results of the last feature run.
type ReportLoader interface {
	Load() (report.Set, error)
}

// Connector opens a TestRail session for one pass.
type Connector func(url string, cred Credential) (TestRail, error)

// Connect is the default Connector, backed by Client.
func Connect(retries int, l *zap.SugaredLogger) Connector {
	return func(url string, cred Credential) (TestRail, error) {
		return New(url, cred, NewHTTPClient(retries, l), l)
	}
}

// Syncer uploads report results into a TestRail run.
type Syncer struct {
	props   *config.Properties
	reports ReportLoader
	connect Connector
	getenv  func(string) string
	now     func() time.Time
	l       *zap.SugaredLogger
}

type Option func(*Syncer)

// WithGetenv replaces os.Getenv as source of the CI variables.
func WithGetenv(getenv func(string) string) Option {
	return func(s *Syncer) { s.getenv = getenv }
}

// WithClock replaces time.Now for ad hoc run names.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

func NewSyncer(props *config.Properties, reports ReportLoader, connect Connector, l *zap.SugaredLogger, opts ...Option) *Syncer {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	s := &Syncer{
		props:   props,
		reports: reports,
		connect: connect,
		getenv:  os.Getenv,
		now:     time.Now,
		l:       l,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Execute runs one synchronization pass. Missing reports, credentials or
// project name end the pass without error. Any failure while resolving the
// run or uploading aborts the pass; results uploaded before stay in TestRail.
func (s *Syncer) Execute(ctx context.Context) error {
	reports, err := s.reports.Load()
	if err != nil {
		return fmt.Errorf("failed to load reports: %w", err)
	}
	if len(reports) == 0 {
		s.l.Info("No report! Skip updating TestRail")
		return nil
	}
	cred, ok := ResolveCredential(s.props)
	if !ok {
		s.l.Info("No TestRail credentials provided! Skip updating TestRail")
		return nil
	}
	projectName := s.props.GetString(config.TestRailProject, "")
	if projectName == "" {
		s.l.Info("No TestRail project provided! Skip updating TestRail")
		return nil
	}
	url := s.props.GetString(config.TestRailURL, "")
	if url == "" {
		return ErrNoTestRailURL
	}
	cases, err := pendingCases(reports)
	if err != nil {
		return err
	}
	tr, err := s.connect(url, cred)
	if err != nil {
		return err
	}

	project, err := tr.GetProject(ctx, projectName)
	if err != nil {
		return fmt.Errorf("failed to get project %q: %w", projectName, err)
	}
	run, err := s.resolveRun(ctx, tr, project, cases[0].id)
	if err != nil {
		return err
	}

	for _, c := range cases {
		if err := s.upload(ctx, tr, run, c.id, c.entry); err != nil {
			return err
		}
	}
	s.l.Infof("uploaded %d results to run %q (%d)", len(cases), run.Name, run.ID)
	return nil
}

type pendingCase struct {
	id    int
	entry *report.Entry
}

// pendingCases parses every case id of reports and orders them numerically.
func pendingCases(reports report.Set) ([]pendingCase, error) {
	cases := make([]pendingCase, 0, len(reports))
	for key, e := range reports {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCaseID, key)
		}
		cases = append(cases, pendingCase{id: id, entry: e})
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].id < cases[j].id })
	return cases, nil
}

func (s *Syncer) resolveRun(ctx context.Context, tr TestRail, project *Project, firstCase int) (Run, error) {
	s.l.Infof("Build number %s", s.getenv(config.BuildNumber))
	name := RunName(s.props, s.getenv, s.now())
	run, found, err := FindRun(ctx, tr, project.ID, name)
	if err != nil {
		return Run{}, fmt.Errorf("failed to list runs of project %d: %w", project.ID, err)
	}
	if found {
		s.l.Infof("using existing run %q (%d)", run.Name, run.ID)
		return run, nil
	}
	var suiteID int
	if project.SuiteMode == SuiteModeMultiple {
		// the run is bound to the suite of the first reported case
		tc, err := tr.GetCase(ctx, firstCase)
		if err != nil {
			return Run{}, fmt.Errorf("failed to get suite of case %d: %w", firstCase, err)
		}
		suiteID = tc.SuiteID
		s.l.Infof("project %q uses multiple suites, creating run in suite %d", project.Name, suiteID)
	}
	created, err := tr.AddRun(ctx, project.ID, suiteID, name)
	if err != nil {
		return Run{}, fmt.Errorf("failed to create run %q: %w", name, err)
	}
	return *created, nil
}

func (s *Syncer) upload(ctx context.Context, tr TestRail, run Run, caseID int, e *report.Entry) error {
	tc, err := tr.GetCase(ctx, caseID)
	if err != nil {
		return fmt.Errorf("failed to get case %d: %w", caseID, err)
	}
	if err := tr.AddCaseToRun(ctx, run.ID, caseID); err != nil {
		return fmt.Errorf("failed to add case %d to run %d: %w", caseID, run.ID, err)
	}
	var elapsed time.Duration
	if e.Result.Duration != nil {
		elapsed = time.Duration(*e.Result.Duration) * time.Millisecond
	}
	if _, err := tr.AddResultForCase(ctx, run.ID, tc.ID, e.Result.Status, e.Result.Message, elapsed); err != nil {
		return fmt.Errorf("failed to add result for case %d: %w", caseID, err)
	}
	s.l.Debugf("case %d: %s", caseID, e.Result.Status)
	return nil
}

// ShouldUpdate reports whether this process runs as a CI build, the only
// situation TestRail gets updated in.
func ShouldUpdate(getenv func(string) string) bool {
	return getenv(config.BuildNumber) != ""
}

// Update builds a Syncer and executes it, but only on CI. Outside CI nothing
// is built, read or sent.
func Update(ctx context.Context, getenv func(string) string, build func() (*Syncer, error)) error {
	if !ShouldUpdate(getenv) {
		return nil
	}
	s, err := build()
	if err != nil {
		return err
	}
	return s.Execute(ctx)
}
