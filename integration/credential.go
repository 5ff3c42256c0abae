package integration

import "github.com/f4hrenh9it/go-testrail/config"

// Credential authenticates against TestRail with a user and an API key or password.
type Credential struct {
	User string
	Key  string
}

// ResolveCredential returns the configured credential. Both keys have to be
// present, blank values count as present.
func ResolveCredential(p *config.Properties) (Credential, bool) {
	key, okKey := p.Get(config.TestRailKey)
	user, okUser := p.Get(config.TestRailUser)
	if !okKey || !okUser {
		return Credential{}, false
	}
	return Credential{User: user, Key: key}, true
}
