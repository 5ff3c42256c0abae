package config

import (
	"context"
	"fmt"
	"regexp"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

var secretRef = regexp.MustCompile(`^\s*VAULT\((.+)#(.+)\)\s*$`)

// SecretProvider returns a single field of a secret held in a key vault.
type SecretProvider interface {
	Secret(ctx context.Context, path, field string) (string, error)
}

// ProviderFactory builds a SecretProvider from the already loaded properties.
type ProviderFactory func(p *Properties) (SecretProvider, error)

// Load reads the given .properties files in order (later files win, missing
// files are skipped), applies overrides on top and resolves VAULT(path#field)
// references through the provider returned by newProvider. The provider is
// only built when at least one reference exists.
func Load(ctx context.Context, files []string, overrides map[string]string, newProvider ProviderFactory, l *zap.SugaredLogger) (*Properties, error) {
	loader := properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
		IgnoreMissing:    true,
	}
	raw, err := loader.LoadAll(files)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties from %v: %w", files, err)
	}
	p := New(raw, l)
	for k, v := range overrides {
		p.Set(k, v)
	}
	if err := ResolveSecrets(ctx, p, newProvider); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolveSecrets replaces every VAULT(path#field) value in p with the secret
// it points to and marks the key as secret.
func ResolveSecrets(ctx context.Context, p *Properties, newProvider ProviderFactory) error {
	var provider SecretProvider
	for _, k := range p.Keys() {
		v, _ := p.p.Get(k)
		m := secretRef.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		if provider == nil {
			if newProvider == nil {
				return fmt.Errorf("property %s references a vault secret but no key vault is configured", k)
			}
			var err error
			if provider, err = newProvider(p); err != nil {
				return fmt.Errorf("failed to build key vault client: %w", err)
			}
		}
		secret, err := provider.Secret(ctx, m[1], m[2])
		if err != nil {
			return fmt.Errorf("failed to resolve property %s: %w", k, err)
		}
		p.MarkSecret(k)
		p.Set(k, secret)
		p.l.Debugf("resolved %s from key vault path %s", k, m[1])
	}
	return nil
}
