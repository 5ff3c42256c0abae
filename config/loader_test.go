package config

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	values map[string]string
	calls  int
}

func (f *fakeSecrets) Secret(_ context.Context, path, field string) (string, error) {
	f.calls++
	v, ok := f.values[path+"#"+field]
	if !ok {
		return "", ErrSecretNotFound
	}
	return v, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.properties", "testrail.url=https://example.testrail.io/\ntestrail.project = API\ndefault.prefix=Nightly\n")
	local := writeFile(t, dir, "local.properties", "testrail.project=Local\n")

	p, err := Load(context.Background(), []string{base, local, filepath.Join(dir, "missing.properties")},
		map[string]string{"karate.env": "dev", "default.prefix": "Adhoc"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.testrail.io/", p.GetString(TestRailURL, ""))
	assert.Equal(t, "Local", p.GetString(TestRailProject, ""))
	assert.Equal(t, "Adhoc", p.GetString(DefaultPrefix, ""))
	assert.Equal(t, "dev", p.GetString(KarateEnv, ""))
}

func TestLoad_ResolvesVaultReferences(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.properties", "testrail.user=bot\ntestrail.key=VAULT(ci/testrail#key)\n")
	secrets := &fakeSecrets{values: map[string]string{"ci/testrail#key": "s3cret"}}

	p, err := Load(context.Background(), []string{file}, nil, func(*Properties) (SecretProvider, error) {
		return secrets, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", p.GetString(TestRailKey, ""))
	assert.Equal(t, "bot", p.GetString(TestRailUser, ""))
	assert.Equal(t, 1, secrets.calls)
}

func TestLoad_NoReferencesNoProvider(t *testing.T) {
	built := false
	_, err := Load(context.Background(), nil, map[string]string{"a": "b"}, func(*Properties) (SecretProvider, error) {
		built = true
		return nil, errors.New("unexpected")
	}, nil)
	require.NoError(t, err)
	assert.False(t, built)
}

func TestResolveSecrets_Errors(t *testing.T) {
	p := FromMap(map[string]string{"testrail.key": "VAULT(ci/testrail#key)"}, nil)
	assert.Error(t, ResolveSecrets(context.Background(), p, nil))

	err := ResolveSecrets(context.Background(), p, func(*Properties) (SecretProvider, error) {
		return &fakeSecrets{}, nil
	})
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestVaultSecrets_Secret(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/kv/data/ci/testrail", r.URL.Path)
		assert.Equal(t, "root-token", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"key":"s3cret"},"metadata":{"version":1}}}`))
	}))
	defer ts.Close()

	p := FromMap(map[string]string{VaultAddr: ts.URL, VaultToken: "root-token", VaultMount: "/kv/"}, nil)
	provider, err := VaultFromProperties(p)
	require.NoError(t, err)

	v, err := provider.Secret(context.Background(), "ci/testrail", "key")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = provider.Secret(context.Background(), "ci/testrail", "other")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestVaultFromProperties_RequiresAddress(t *testing.T) {
	_, err := VaultFromProperties(FromMap(nil, nil))
	assert.Error(t, err)
}
