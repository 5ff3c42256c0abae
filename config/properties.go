package config

import (
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

const masked = "******"

// Properties resolves named configuration values. A blank value is treated
// exactly like a missing one and resolution failures always degrade to the
// supplied default. Every lookup is logged.
type Properties struct {
	p      *properties.Properties
	secret map[string]bool
	l      *zap.SugaredLogger
}

// New wraps p. A nil p yields an empty property set.
func New(p *properties.Properties, l *zap.SugaredLogger) *Properties {
	if p == nil {
		p = properties.NewProperties()
	}
	p.DisableExpansion = true
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return &Properties{
		p:      p,
		secret: map[string]bool{TestRailKey: true, VaultToken: true},
		l:      l,
	}
}

// FromMap builds a property set from literal values.
func FromMap(m map[string]string, l *zap.SugaredLogger) *Properties {
	return New(properties.LoadMap(m), l)
}

// Set stores value under name, replacing any previous value.
func (c *Properties) Set(name, value string) {
	_, _, _ = c.p.Set(name, value)
}

// MarkSecret hides the value of name in log output.
func (c *Properties) MarkSecret(name string) {
	c.secret[name] = true
}

// Keys returns all keys in insertion order.
func (c *Properties) Keys() []string {
	return c.p.Keys()
}

func (c *Properties) show(name, value string) string {
	if c.secret[name] && value != "" {
		return masked
	}
	return value
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// value returns the raw value or def when the raw value is missing or blank.
func (c *Properties) value(name, def string) string {
	v, ok := c.p.Get(name)
	if !ok || isBlank(v) {
		return def
	}
	return v
}

// Get returns the raw value of name and whether the key exists at all.
// Blank values are returned as present.
func (c *Properties) Get(name string) (string, bool) {
	v, ok := c.p.Get(name)
	if ok {
		c.l.Infof("getProperty('%s') = '%s' [string]", name, c.show(name, v))
	} else {
		c.l.Infof("getProperty('%s') = null [string]", name)
	}
	return v, ok
}

// GetString returns the value of name, or def when it is missing or blank.
func (c *Properties) GetString(name, def string) string {
	v := c.value(name, def)
	c.l.Infof("getProperty('%s', '%s') = '%s' [string]", name, def, c.show(name, v))
	return v
}

// GetInt returns the value of name parsed as a 32 bit integer, or def when it
// is missing, blank or not an integer.
func (c *Properties) GetInt(name string, def int) int {
	v := def
	if n, err := strconv.ParseInt(c.value(name, strconv.Itoa(def)), 10, 32); err == nil {
		v = int(n)
	}
	c.l.Infof("getProperty('%s', %d) = %d [int]", name, def, v)
	return v
}

// GetBool accepts only "true" or "false" in any case. Anything else yields def.
func (c *Properties) GetBool(name string, def bool) bool {
	v := def
	switch raw := c.value(name, strconv.FormatBool(def)); {
	case strings.EqualFold(raw, "true"):
		v = true
	case strings.EqualFold(raw, "false"):
		v = false
	}
	c.l.Infof("getProperty('%s', %t) = %t [boolean]", name, def, v)
	return v
}

// GetList splits the value of name (or def, when the value is missing or
// blank) on delim. A blank result yields an empty list. Trailing empty
// segments are dropped.
func (c *Properties) GetList(name, def, delim string) []string {
	if delim == "" {
		delim = ","
	}
	raw := c.value(name, def)
	values := []string{}
	if !isBlank(raw) {
		values = strings.Split(raw, delim)
		for len(values) > 0 && values[len(values)-1] == "" {
			values = values[:len(values)-1]
		}
	}
	c.l.Infof("getProperty('%s', '%s', '%s') = %s", name, def, delim, quote(values))
	return values
}

func quote(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	return "[ '" + strings.Join(values, "', '") + "' ]"
}
