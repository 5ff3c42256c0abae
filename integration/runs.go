package integration

import (
	"context"
	"strings"
	"time"

	"github.com/f4hrenh9it/go-testrail/config"
)

const (
	defaultPrefix         = "Automated Run"
	defaultDateTimeFormat = "yyyy-MM-dd HH:mm:ss"
)

// RunLister lists the runs of a project.
type RunLister interface {
	GetRuns(ctx context.Context, projectID int) ([]Run, error)
}

// FindRun returns the first run of the project whose trimmed name equals name
// ignoring case. When several runs match, the listing order decides.
func FindRun(ctx context.Context, rl RunLister, projectID int, name string) (Run, bool, error) {
	runs, err := rl.GetRuns(ctx, projectID)
	if err != nil {
		return Run{}, false, err
	}
	for _, r := range runs {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			return r, true, nil
		}
	}
	return Run{}, false, nil
}

// RunName names the run for this pass: "<definition> - <build>" on CI, so
// reruns of a build land in the same run, otherwise "<prefix> <timestamp>".
func RunName(p *config.Properties, getenv func(string) string, now time.Time) string {
	build := getenv(config.BuildNumber)
	if build != "" {
		return getenv(config.BuildDefinition) + " - " + build
	}
	layout := JavaLayout(p.GetString(config.DateTimeFormat, defaultDateTimeFormat))
	return p.GetString(config.DefaultPrefix, defaultPrefix) + " " + now.Format(layout)
}

// JavaLayout converts a SimpleDateFormat pattern such as "yyyy-MM-dd HH:mm:ss"
// into a Go time layout. Quoted text is kept literally, unknown letters are
// copied as they are.
func JavaLayout(pattern string) string {
	var b strings.Builder
	rs := []rune(pattern)
	for i := 0; i < len(rs); {
		r := rs[i]
		if r == '\'' {
			j := i + 1
			if j < len(rs) && rs[j] == '\'' {
				b.WriteRune('\'')
				i += 2
				continue
			}
			for ; j < len(rs); j++ {
				if rs[j] == '\'' {
					if j+1 < len(rs) && rs[j+1] == '\'' {
						b.WriteRune('\'')
						j++
						continue
					}
					break
				}
				b.WriteRune(rs[j])
			}
			i = j + 1
			continue
		}
		n := 1
		for i+n < len(rs) && rs[i+n] == r {
			n++
		}
		b.WriteString(javaToken(r, n))
		i += n
	}
	return b.String()
}

func javaToken(r rune, n int) string {
	pick := func(short, long string, threshold int) string {
		if n >= threshold {
			return long
		}
		return short
	}
	switch r {
	case 'y', 'Y', 'u':
		if n == 2 {
			return "06"
		}
		return "2006"
	case 'M', 'L':
		switch {
		case n >= 4:
			return "January"
		case n == 3:
			return "Jan"
		}
		return pick("1", "01", 2)
	case 'd':
		return pick("2", "02", 2)
	case 'H', 'k':
		return "15"
	case 'h', 'K':
		return pick("3", "03", 2)
	case 'm':
		return pick("4", "04", 2)
	case 's':
		return pick("5", "05", 2)
	case 'S':
		return strings.Repeat("0", n)
	case 'a':
		return "PM"
	case 'E':
		return pick("Mon", "Monday", 4)
	case 'z':
		return "MST"
	case 'Z':
		return "-0700"
	case 'X':
		return pick("Z07", "Z07:00", 3)
	}
	return strings.Repeat(string(r), n)
}
