package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
)

// ErrSecretNotFound is returned when the vault has no value at the path or field.
var ErrSecretNotFound = errors.New("secret not found")

// VaultSecrets reads fields of KV v2 secrets.
type VaultSecrets struct {
	client *api.Client
	mount  string
}

// NewVaultSecrets builds a client for addr. An empty token falls back to the
// VAULT_TOKEN environment variable.
func NewVaultSecrets(addr, token, mount string) (*VaultSecrets, error) {
	client, err := api.NewClient(&api.Config{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("failed to construct vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}
	if mount == "" {
		mount = "secret"
	}
	return &VaultSecrets{client: client, mount: strings.Trim(mount, "/")}, nil
}

// VaultFromProperties is a ProviderFactory reading vault.addr, vault.token and vault.mount.
func VaultFromProperties(p *Properties) (SecretProvider, error) {
	addr := p.GetString(VaultAddr, "")
	if addr == "" {
		return nil, fmt.Errorf("%s is not set", VaultAddr)
	}
	token, _ := p.Get(VaultToken)
	return NewVaultSecrets(addr, token, p.GetString(VaultMount, "secret"))
}

func (v *VaultSecrets) Secret(ctx context.Context, path, field string) (string, error) {
	full := fmt.Sprintf("%s/data/%s", v.mount, strings.TrimPrefix(path, "/"))
	secret, err := v.client.Logical().ReadWithContext(ctx, full)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", full, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, full)
	}
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: %s has no data", ErrSecretNotFound, full)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s has no field %q", ErrSecretNotFound, full, field)
	}
	return value, nil
}
