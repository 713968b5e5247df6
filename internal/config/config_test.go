package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerdesk/docflow/internal/template"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeMainConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMainConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeMainConfig(t, dir, "log_level: debug\n")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./inbox", cfg.InboxDir)
	assert.Equal(t, "./archive", cfg.ArchiveDir)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "confirmed", cfg.Outcomes["confirmed"])
	assert.Equal(t, "validation_error", cfg.Outcomes["validation_error"])

	// The working directories were created.
	assert.DirExists(t, filepath.Join(dir, "inbox"))
	assert.DirExists(t, filepath.Join(dir, "archive", "rejected"))
}

func TestLoadMainConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DOCFLOW_MAX_CONCURRENCY", "8")
	t.Setenv("DOCFLOW_LOG_LEVEL", "warn")

	path := writeMainConfig(t, dir, "log_level: debug\n")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestOutcomeDir(t *testing.T) {
	cfg := &MainConfig{
		ArchiveDir: "/data/archive",
		Outcomes:   map[string]string{"confirmed": "ok"},
	}

	assert.Equal(t, filepath.Join("/data/archive", "ok"), cfg.OutcomeDir("confirmed"))
	assert.Equal(t, filepath.Join("/data/archive", "other"), cfg.OutcomeDir("other"))
}

const partnerYAML = `
partner_name: Acme Trading
partner_code: acme
templates:
  - code: order
    file_matching_patterns: ["order_*.xlsx"]
    mappings:
      - field: ORDER_NUMBER
        column: B
        row: 2
        label: "Order No."
        value_column: D
        value_row: 2
      - field: ITEM_NUMBER
        column: B
        row: 4
        label: Item
      - field: ITEM_COUNT
        column: C
        row: 4
        label: Count
  - code: price
    file_matching_patterns: ["price_*.xlsx"]
    mappings:
      - field: ITEM_NUMBER
        column: B
        row: 1
        label: Item
      - field: ITEM_PRICE
        column: C
        row: 1
        label: Price
`

func TestLoadPartnerConfigs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.yaml"), []byte(partnerYAML), 0644))

	configs, err := LoadPartnerConfigs(dir)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	pc, ok := configs["acme"]
	require.True(t, ok)
	assert.Equal(t, "Acme Trading", pc.PartnerName)
	require.Len(t, pc.Templates, 2)
}

func TestPartnerConfigFieldMap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.yaml"), []byte(partnerYAML), 0644))

	configs, err := LoadPartnerConfigs(dir)
	require.NoError(t, err)
	pc := configs["acme"]

	fm, err := pc.FieldMap(template.CodeOrder)
	require.NoError(t, err)
	assert.Equal(t, "acme", fm.Partner())
	assert.Len(t, fm.Mappings(), 3)

	m, err := fm.Resolve(template.FieldOrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "D", m.ValueColumn)
	assert.Equal(t, 2, m.ValueRow)

	m, err = fm.Resolve(template.FieldItemCount)
	require.NoError(t, err)
	assert.Equal(t, 5, m.ValueRow)

	_, err = pc.FieldMap(template.CodeUpd)
	assert.Error(t, err)
}

func TestPartnerConfigMatchTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.yaml"), []byte(partnerYAML), 0644))

	configs, err := LoadPartnerConfigs(dir)
	require.NoError(t, err)
	pc := configs["acme"]

	code, ok := pc.MatchTemplate("order_2026_08.xlsx")
	require.True(t, ok)
	assert.Equal(t, template.CodeOrder, code)

	code, ok = pc.MatchTemplate("price_list_v2.xlsx")
	require.True(t, ok)
	assert.Equal(t, template.CodePrice, code)

	_, ok = pc.MatchTemplate("invoice.xlsx")
	assert.False(t, ok)
}

func TestLoadPartnerConfigRejectsUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	bad := "partner_code: acme\ntemplates:\n  - code: invoice\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme.yaml"), []byte(bad), 0644))

	_, err := LoadPartnerConfigs(dir)
	assert.Error(t, err)
}
