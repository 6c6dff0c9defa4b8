package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ── YAML Config Types ──────────────────────────────────────────────

// StudioConfig is the top-level ~/.mavericks/config.yaml structure.
type StudioConfig struct {
	LogLevel  string       `yaml:"log_level"`
	AssetsDir string       `yaml:"assets_dir"`
	Avatar    AvatarConfig `yaml:"avatar"`
	Catalog   Catalog      `yaml:"catalog"`
}

type AvatarConfig struct {
	Fetch    bool          `yaml:"fetch"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Catalog lists every option the wizard offers.
type Catalog struct {
	Roles          []Option          `yaml:"roles"`
	Integrations   []Option          `yaml:"integrations"`
	KnowledgeBases []Option          `yaml:"knowledge_bases"`
	Personalities  map[string]string `yaml:"personalities"`
}

// Option is one selectable entry. Name is shown in the wizard, Label on
// card badges.
type Option struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"`
}

var ErrInvalidConfig = errors.New("invalid config")

// ── Paths ──────────────────────────────────────────────────────────

func studioDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mavericks")
}

func configPath() string { return filepath.Join(studioDir(), "config.yaml") }
func logPath() string    { return filepath.Join(studioDir(), "mavericks.log") }

func ensureStudioDir() error {
	return os.MkdirAll(studioDir(), 0755)
}

// ── Load / Save ────────────────────────────────────────────────────

// LoadConfig reads the config file on top of the defaults and applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*StudioConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *StudioConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills zero values a partial file may leave behind.
func applyDefaults(cfg *StudioConfig) {
	def := DefaultConfig()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = def.AssetsDir
	}
	if cfg.Avatar.Endpoint == "" {
		cfg.Avatar.Endpoint = def.Avatar.Endpoint
	}
	if cfg.Avatar.Timeout <= 0 {
		cfg.Avatar.Timeout = def.Avatar.Timeout
	}
	if cfg.Catalog.Personalities == nil {
		cfg.Catalog.Personalities = def.Catalog.Personalities
	}
}

func applyEnvOverrides(cfg *StudioConfig) {
	if v := os.Getenv("MAVERICKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MAVERICKS_AVATAR_ENDPOINT"); v != "" {
		cfg.Avatar.Endpoint = v
	}
	if v := os.Getenv("MAVERICKS_AVATAR_FETCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Avatar.Fetch = b
		}
	}
}

// Validate checks the catalog for missing or duplicate option ids.
func (c *StudioConfig) Validate() error {
	if len(c.Catalog.Roles) == 0 {
		return fmt.Errorf("%w: catalog.roles is empty", ErrInvalidConfig)
	}
	groups := []struct {
		name string
		opts []Option
	}{
		{"roles", c.Catalog.Roles},
		{"integrations", c.Catalog.Integrations},
		{"knowledge_bases", c.Catalog.KnowledgeBases},
	}
	for _, g := range groups {
		seen := make(map[string]bool, len(g.opts))
		for i, o := range g.opts {
			if o.ID == "" {
				return fmt.Errorf("%w: catalog.%s[%d] has no id", ErrInvalidConfig, g.name, i)
			}
			if seen[o.ID] {
				return fmt.Errorf("%w: catalog.%s has duplicate id %q", ErrInvalidConfig, g.name, o.ID)
			}
			seen[o.ID] = true
		}
	}
	return nil
}

// ── Default Config Generation ──────────────────────────────────────

func DefaultConfig() *StudioConfig {
	return &StudioConfig{
		LogLevel:  "info",
		AssetsDir: "assets",
		Avatar: AvatarConfig{
			Fetch:    true,
			Endpoint: defaultAvatarEndpoint,
			Timeout:  5 * time.Second,
		},
		Catalog: DefaultCatalog(),
	}
}

func DefaultCatalog() Catalog {
	return Catalog{
		Roles: []Option{
			{ID: "notetaker", Name: "Notetaker"},
			{ID: "chat_with_crm", Name: "Chat with CRM"},
		},
		Integrations: []Option{
			{ID: "slack", Name: "Slack", Label: "Slack"},
			{ID: "teams", Name: "Microsoft Teams", Label: "Teams"},
			{ID: "gmail", Name: "Gmail", Label: "Gmail"},
			{ID: "calendar", Name: "Google Calendar", Label: "Calendar"},
			{ID: "drive", Name: "Google Drive", Label: "Drive"},
			{ID: "zapier", Name: "Zapier", Label: "Zapier"},
			{ID: "notion", Name: "Notion", Label: "Notion"},
			{ID: "salesforce", Name: "Salesforce", Label: "Salesforce"},
		},
		KnowledgeBases: []Option{
			{ID: "company_docs", Name: "Documentos da Empresa", Label: "Docs"},
			{ID: "product_info", Name: "Informações de Produtos", Label: "Produtos"},
			{ID: "customer_data", Name: "Dados de Clientes", Label: "Clientes"},
			{ID: "market_research", Name: "Pesquisas de Mercado", Label: "Mercado"},
			{ID: "internal_wiki", Name: "Wiki Interna", Label: "Wiki"},
			{ID: "training_materials", Name: "Materiais de Treinamento", Label: "Treinamento"},
		},
		Personalities: map[string]string{
			"professional": "Profissional",
			"friendly":     "Amigável",
			"analytical":   "Analítico",
			"creative":     "Criativo",
			"assertive":    "Assertivo",
			"supportive":   "Prestativo",
		},
	}
}
