// Package tags builds the tag filter handed to the feature runner.
//
// Every entry of a filter must match (implied AND). An entry holding a comma
// separated group matches when any member does (implied OR), so "@R2,@API"
// selects features tagged @R2 or @API while {"@R2", "@API"} selects those
// tagged with both. A leading "~" negates a tag.
package tags

import (
	"strings"

	"github.com/f4hrenh9it/go-testrail/config"
)

const (
	NoData       = "~@NO-DATA"
	NoDataPrefix = "~@NO-DATA-"
	IgnoreLower  = "~@ignore"
	IgnoreUpper  = "~@IGNORE"
)

// Options toggles the derived exclusions.
type Options struct {
	Env string
	// ExcludeNoDataEnv skips features without data in Env (@NO-DATA-<ENV>).
	ExcludeNoDataEnv bool
	// ExcludeNoData skips features without data in any environment (@NO-DATA).
	ExcludeNoData bool
	// ExcludeIgnored skips @ignore and @IGNORE.
	ExcludeIgnored bool
	// Extra holds configured entries appended after the derived ones.
	Extra []string
}

// OptionsFrom reads the toggles and the configured tags. Toggles default to true.
func OptionsFrom(p *config.Properties) Options {
	env, _ := p.Get(config.KarateEnv)
	return Options{
		Env:              env,
		ExcludeNoDataEnv: p.GetBool(config.NoDataEnv, true),
		ExcludeNoData:    p.GetBool(config.NoData, true),
		ExcludeIgnored:   p.GetBool(config.Ignore, true),
		Extra:            p.GetList(config.Tags, "", "&"),
	}
}

// Build returns the ordered filter. An empty Env still yields "~@NO-DATA-":
// the environment name is passed through unvalidated.
func Build(o Options) []string {
	tags := []string{}
	if o.ExcludeNoDataEnv {
		tags = append(tags, NoDataPrefix+strings.ToUpper(o.Env))
	}
	if o.ExcludeNoData {
		tags = append(tags, NoData)
	}
	if o.ExcludeIgnored {
		tags = append(tags, IgnoreLower, IgnoreUpper)
	}
	for _, t := range o.Extra {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// FromProperties is shorthand for Build(OptionsFrom(p)).
func FromProperties(p *config.Properties) []string {
	return Build(OptionsFrom(p))
}
