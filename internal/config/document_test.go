package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDocumentConfigDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	holder, err := NewDocumentConfigHolder(Config{DocumentConfigPath: dir}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "SRI RAJA MOSQUITO NETLON SERVICES", got.Company.Name)
	assert.Equal(t, "HDFC BANK", got.Bank.BankName)
	assert.Equal(t, "0.09", got.Tax.CGST.String())
	assert.Equal(t, "91", got.CountryCode)
}

func TestDocumentConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	body := `document:
  company:
    name: "ACME NETS"
  tax:
    cgst: 0.06
    sgst: 0.06
  country_code: "+94"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document.yml"), []byte(body), 0o600))

	holder, err := NewDocumentConfigHolder(Config{DocumentConfigPath: dir}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "ACME NETS", got.Company.Name)
	assert.Equal(t, "0.06", got.Tax.SGST.String())
	assert.Equal(t, "94", got.CountryCode)
	// untouched keys keep their defaults
	assert.Equal(t, "HDFC0006806", got.Bank.IFSC)
	assert.Equal(t, "₹", got.Currency)
}

func TestDocumentConfigRejectsBadRates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	body := "document:\n  tax:\n    cgst: 1.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document.yml"), []byte(body), 0o600))

	_, err := NewDocumentConfigHolder(Config{DocumentConfigPath: dir}, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORE_BASE_URL", "http://store.local/api/")
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("ARTIFACT_SINK", "S3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "http://store.local/api", cfg.Store.BaseURL)
	assert.Equal(t, "3s", cfg.Store.Timeout.String())
	assert.Equal(t, SinkS3, cfg.Artifact.Sink)
}
