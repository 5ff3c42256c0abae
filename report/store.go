package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultCaseTag extracts the case id from a scenario tag such as @C1234.
const DefaultCaseTag = `^@C(\d+)$`

// Store parses the cucumber JSON reports found below a directory.
type Store struct {
	fs      afero.Fs
	dir     string
	caseTag *regexp.Regexp
	l       *zap.SugaredLogger
}

// NewStore returns a store reading dir on fs. caseTag must hold one capture group.
func NewStore(fs afero.Fs, dir string, caseTag *regexp.Regexp, l *zap.SugaredLogger) *Store {
	if caseTag == nil {
		caseTag = regexp.MustCompile(DefaultCaseTag)
	}
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return &Store{fs: fs, dir: dir, caseTag: caseTag, l: l}
}

// Load parses every *.json file below the store directory. A missing
// directory yields an empty set; a malformed file is an error.
func (s *Store) Load() (Set, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	set := Set{}
	for _, f := range files {
		features, err := s.parse(f)
		if err != nil {
			return nil, err
		}
		for _, feature := range features {
			s.collect(set, feature)
		}
	}
	s.l.Debugf("parsed %d report files into %d test cases", len(files), len(set))
	return set, nil
}

func (s *Store) files() ([]string, error) {
	if _, err := s.fs.Stat(s.dir); err != nil {
		if os.IsNotExist(err) {
			s.l.Infof("report directory %s does not exist", s.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat report directory %s: %w", s.dir, err)
	}
	var files []string
	err := afero.Walk(s.fs, s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %s: %w", s.dir, err)
	}
	return files, nil
}

func (s *Store) parse(path string) ([]Feature, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	var features []Feature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return features, nil
}

// collect adds the scenarios of feature to set. A background element belongs
// to the scenario element following it.
func (s *Store) collect(set Set, feature Feature) {
	var background *Element
	for i, e := range feature.Elements {
		if e.Type == "background" {
			background = &feature.Elements[i]
			continue
		}
		parts := []Element{e}
		if background != nil {
			parts = []Element{*background, e}
			background = nil
		}
		id := s.caseID(e.Tags)
		if id == "" {
			s.l.Debugf("scenario %q in %s has no case tag, skipping", e.Name, feature.URI)
			continue
		}
		r := scenarioResult(parts...)
		if prev, ok := set[id]; ok {
			prev.Result = merge(prev.Result, r)
			continue
		}
		set[id] = &Entry{CaseID: id, Result: r}
	}
}

func (s *Store) caseID(tags []Tag) string {
	for _, t := range tags {
		if m := s.caseTag.FindStringSubmatch(strings.TrimSpace(t.Name)); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

func scenarioResult(elements ...Element) Result {
	var (
		msg      strings.Builder
		total    int64
		timed    bool
		statuses []string
	)
	record := func(r StepResult) {
		statuses = append(statuses, r.Status)
		if r.Duration > 0 {
			total += r.Duration
			timed = true
		}
	}
	for _, e := range elements {
		for _, h := range e.Before {
			record(h.Result)
			appendError(&msg, h.Result)
		}
		for _, st := range e.Steps {
			record(st.Result)
			fmt.Fprintf(&msg, "%s%s ... %s\n", st.Keyword, st.Name, st.Result.Status)
			if st.DocString != nil && st.DocString.Value != "" {
				msg.WriteString(strings.TrimRight(st.DocString.Value, "\n"))
				msg.WriteString("\n")
			}
			appendError(&msg, st.Result)
		}
		for _, h := range e.After {
			record(h.Result)
			appendError(&msg, h.Result)
		}
	}
	r := Result{Status: worst(statuses), Message: strings.TrimRight(msg.String(), "\n")}
	if timed {
		ms := total / 1e6
		r.Duration = &ms
	}
	return r
}

func appendError(msg *strings.Builder, r StepResult) {
	if r.ErrorMessage != "" {
		msg.WriteString(r.ErrorMessage)
		msg.WriteString("\n")
	}
}

// worst returns failed when any status failed, else the first status that is
// not passed, else passed.
func worst(statuses []string) string {
	status := StatusPassed
	for _, s := range statuses {
		switch {
		case s == StatusFailed:
			return StatusFailed
		case s != StatusPassed && s != "" && status == StatusPassed:
			status = s
		}
	}
	return status
}

func merge(a, b Result) Result {
	out := Result{
		Status:  worst([]string{a.Status, b.Status}),
		Message: a.Message + "\n\n" + b.Message,
	}
	if a.Duration != nil || b.Duration != nil {
		var d int64
		if a.Duration != nil {
			d += *a.Duration
		}
		if b.Duration != nil {
			d += *b.Duration
		}
		out.Duration = &d
	}
	return out
}
