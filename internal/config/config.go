// =============================================================================
// Docflow - Configuration Module
// =============================================================================
//
// This module loads and manages all configuration files. It handles both the
// main application configuration and per-partner template configurations.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings
//   2. Partner Configs (partners/*.yaml): Per-partner template field maps
//
// A .env file next to the binary may override a handful of main settings,
// which keeps deployment credentials and paths out of the YAML checked into
// the repository.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/partnerdesk/docflow/internal/template"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InboxDir is the directory scanned for incoming partner documents.
	// Each partner has a subdirectory named by its partner code.
	InboxDir string `yaml:"inbox_dir"`

	// ArchiveDir is where processed documents are moved after handling.
	ArchiveDir string `yaml:"archive_dir"`

	// ReportsDir is where error reports are written.
	ReportsDir string `yaml:"reports_dir"`

	// PartnersDir is the directory holding per-partner YAML configs.
	PartnersDir string `yaml:"partners_dir"`

	// OrdersFile is the YAML export of the open-order book.
	OrdersFile string `yaml:"orders_file"`

	// =========================================================================
	// OUTCOME ROUTING
	// =========================================================================

	// Outcomes maps a processing verdict ("confirmed", "canceled",
	// "changed", "approved", "validation_error", "rejected") to the folder,
	// relative to ArchiveDir, the document is filed into.
	Outcomes map[string]string `yaml:"outcomes"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the log file.
	LogFile string `yaml:"log_file"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency caps how many partners are processed in parallel.
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps the run going when one partner's documents
	// fail.
	ContinueOnError bool `yaml:"continue_on_error"`
}

// =============================================================================
// PARTNER CONFIGURATION STRUCTURE
// =============================================================================

// PartnerConfig holds one partner's template definitions.
type PartnerConfig struct {
	// PartnerName is the human-readable partner name, used in logs.
	PartnerName string `yaml:"partner_name"`

	// PartnerCode identifies the partner; it doubles as the inbox
	// subdirectory name.
	PartnerCode string `yaml:"partner_code"`

	// Templates defines the document kinds this partner exchanges.
	Templates []TemplateConfig `yaml:"templates"`
}

// TemplateConfig defines one document kind for a partner.
type TemplateConfig struct {
	// Code is the template kind: "order", "price" or "upd".
	Code string `yaml:"code"`

	// FileMatchingPatterns are glob patterns matched against incoming file
	// names to pick this template.
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`

	// Mappings bind field codes to spreadsheet coordinates.
	Mappings []MappingConfig `yaml:"mappings"`
}

// MappingConfig is the YAML shape of one field mapping.
type MappingConfig struct {
	// Field is the logical field code, e.g. "ITEM_COUNT".
	Field string `yaml:"field"`

	// Column and Row locate the header label cell.
	Column string `yaml:"column"`
	Row    int    `yaml:"row"`

	// Label is the expected header text.
	Label string `yaml:"label"`

	// ValueColumn and ValueRow locate the value cell. When omitted they
	// default to the header column one row down.
	ValueColumn string `yaml:"value_column,omitempty"`
	ValueRow    int    `yaml:"value_row,omitempty"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file, applies
// defaults, overlays .env overrides, and makes sure the working directories
// exist.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)
	applyEnvOverrides(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InboxDir == "" {
		config.InboxDir = "./inbox"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./archive"
	}
	if config.ReportsDir == "" {
		config.ReportsDir = "./reports"
	}
	if config.PartnersDir == "" {
		config.PartnersDir = "./partners"
	}
	if config.OrdersFile == "" {
		config.OrdersFile = "./orders.yaml"
	}
	if config.Outcomes == nil {
		config.Outcomes = map[string]string{}
	}
	for _, outcome := range []string{"confirmed", "canceled", "changed", "approved", "validation_error", "rejected"} {
		if config.Outcomes[outcome] == "" {
			config.Outcomes[outcome] = outcome
		}
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/docflow.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// applyEnvOverrides overlays settings from the environment, loading a .env
// file first when one exists. A missing .env file is not an error.
func applyEnvOverrides(config *MainConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("DOCFLOW_INBOX_DIR"); v != "" {
		config.InboxDir = v
	}
	if v := os.Getenv("DOCFLOW_ARCHIVE_DIR"); v != "" {
		config.ArchiveDir = v
	}
	if v := os.Getenv("DOCFLOW_REPORTS_DIR"); v != "" {
		config.ReportsDir = v
	}
	if v := os.Getenv("DOCFLOW_PARTNERS_DIR"); v != "" {
		config.PartnersDir = v
	}
	if v := os.Getenv("DOCFLOW_ORDERS_FILE"); v != "" {
		config.OrdersFile = v
	}
	if v := os.Getenv("DOCFLOW_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("DOCFLOW_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxConcurrency = n
		}
	}
}

// validateMainConfig makes sure the working directories exist, creating them
// when absent.
func validateMainConfig(config *MainConfig) error {
	dirs := []string{
		config.InboxDir,
		config.ArchiveDir,
		config.ReportsDir,
		config.PartnersDir,
	}
	for _, outcome := range config.Outcomes {
		dirs = append(dirs, filepath.Join(config.ArchiveDir, outcome))
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// OutcomeDir returns the archive folder for an outcome key.
func (c *MainConfig) OutcomeDir(outcome string) string {
	folder, ok := c.Outcomes[outcome]
	if !ok {
		folder = outcome
	}
	return filepath.Join(c.ArchiveDir, folder)
}

// LoadPartnerConfigs loads all partner configurations from a directory,
// keyed by partner code.
func LoadPartnerConfigs(partnersDir string) (map[string]*PartnerConfig, error) {
	configs := make(map[string]*PartnerConfig)

	files, err := filepath.Glob(filepath.Join(partnersDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list partner configs: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(partnersDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list partner configs: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := loadPartnerConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		key := config.PartnerCode
		if key == "" {
			key = filepath.Base(file)
		}
		configs[key] = config
	}

	return configs, nil
}

// loadPartnerConfig loads and validates a single partner configuration.
func loadPartnerConfig(filePath string) (*PartnerConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config PartnerConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	for _, tc := range config.Templates {
		if !template.Known(template.Code(tc.Code)) {
			return nil, fmt.Errorf("unknown template code %q", tc.Code)
		}
	}

	return &config, nil
}

// =============================================================================
// FIELD MAP CONSTRUCTION
// =============================================================================

// FieldMap builds the parse-time field map for one of the partner's
// templates. The error reports missing templates and bad mappings alike.
func (c *PartnerConfig) FieldMap(code template.Code) (*template.FieldMap, error) {
	tc, ok := c.Template(code)
	if !ok {
		return nil, fmt.Errorf("partner %q has no %q template", c.PartnerCode, code)
	}

	mappings := make([]template.FieldMapping, 0, len(tc.Mappings))
	for _, m := range tc.Mappings {
		mappings = append(mappings, template.FieldMapping{
			Field:       template.FieldCode(m.Field),
			Column:      m.Column,
			Row:         m.Row,
			Label:       m.Label,
			ValueColumn: m.ValueColumn,
			ValueRow:    m.ValueRow,
		})
	}

	return template.NewFieldMap(c.PartnerCode, code, mappings)
}

// Template returns the template config for a code.
func (c *PartnerConfig) Template(code template.Code) (TemplateConfig, bool) {
	for _, tc := range c.Templates {
		if template.Code(tc.Code) == code {
			return tc, true
		}
	}
	return TemplateConfig{}, false
}

// MatchTemplate picks the template whose file patterns match the given file
// name. The first matching template wins; ok is false when none match.
func (c *PartnerConfig) MatchTemplate(fileName string) (template.Code, bool) {
	for _, tc := range c.Templates {
		for _, pattern := range tc.FileMatchingPatterns {
			matched, err := filepath.Match(pattern, fileName)
			if err != nil {
				continue
			}
			if matched {
				return template.Code(tc.Code), true
			}
		}
	}
	return "", false
}
