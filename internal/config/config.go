package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds all settings for the extractor, the enrichment run and the viewers.
//
// Values are resolved in order: defaults, optional YAML file, environment, CLI flags.
//
// Environment Variables:
// - DATASET_PATH, CORPUS_PATH, EXTRACT_LIMIT
// - SOURCE_LANG (default sq, "auto" detects), TARGET_LANG (default en)
// - BATCH_MAX_ITEMS (100), BATCH_MAX_CHARS (10000), WORKERS (1)
// - HTTP_TIMEOUT_SEC (25), MAX_RETRIES (3)
// - TRANSLATOR_DOCUMENT_ENDPOINT, TRANSLATOR_KEY, TRANSLATOR_REGION, USE_MOCK_TRANSLATOR
// - LLM_PROVIDER (openai|azure|gemini|mock), LLM_GATEWAY_URL, LLM_API_KEY, LLM_MODEL, USE_MOCK_LLM
// - AZURE_OPENAI_API_KEY, AZURE_OPENAI_API_VERSION, AZURE_OPENAI_API_ENDPOINT, AZURE_OPENAI_MODEL_NAME
// - GEMINI_API_KEY
// - LANGUAGE_SERVICE_ENDPOINT, LANGUAGE_SERVICE_KEY, USE_MOCK_QA
// - PORT (8080), LOG_FILE
// - CONFIG_PATH is read by cmd/api only, which has no --config flag
type Config struct {
	DatasetPath string `yaml:"dataset_path"`
	CorpusPath  string `yaml:"corpus_path"`
	Limit       int    `yaml:"extract_limit"`

	SourceLang string `yaml:"source_lang"`
	TargetLang string `yaml:"target_lang"`

	BatchMaxItems int `yaml:"batch_max_items"`
	BatchMaxChars int `yaml:"batch_max_chars"`
	Workers       int `yaml:"workers"`

	HTTPTimeoutSec int `yaml:"http_timeout_sec"`
	MaxRetries     int `yaml:"max_retries"`

	Translator TranslatorConfig `yaml:"translator"`
	LLM        LLMConfig        `yaml:"llm"`
	QA         QAConfig         `yaml:"qa"`

	Port    string `yaml:"port"`
	LogFile string `yaml:"log_file"`
}

type TranslatorConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"key"`
	Region   string `yaml:"region"`
	Mock     bool   `yaml:"mock"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`

	// OpenAI-compatible gateway
	GatewayURL string `yaml:"gateway_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`

	// Azure OpenAI deployment
	AzureEndpoint   string `yaml:"azure_endpoint"`
	AzureAPIKey     string `yaml:"azure_api_key"`
	AzureAPIVersion string `yaml:"azure_api_version"`
	AzureDeployment string `yaml:"azure_deployment"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
}

type QAConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"key"`
	Mock     bool   `yaml:"mock"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DatasetPath:    "data.csv",
		CorpusPath:     "data.jsonl",
		Limit:          100,
		SourceLang:     "sq",
		TargetLang:     "en",
		BatchMaxItems:  100,
		BatchMaxChars:  10000,
		Workers:        1,
		HTTPTimeoutSec: 25,
		MaxRetries:     3,
		LLM: LLMConfig{
			Provider:        "",
			Model:           "gpt-4o",
			AzureAPIVersion: "2024-06-01",
		},
		Port: "8080",
	}
}

// Load resolves the configuration. path may be empty, in which case no file is read.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	var firstErr error
	num := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", key, err)
			}
			return
		}
		*dst = n
	}
	flag := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	str("DATASET_PATH", &c.DatasetPath)
	str("CORPUS_PATH", &c.CorpusPath)
	num("EXTRACT_LIMIT", &c.Limit)
	str("SOURCE_LANG", &c.SourceLang)
	str("TARGET_LANG", &c.TargetLang)
	num("BATCH_MAX_ITEMS", &c.BatchMaxItems)
	num("BATCH_MAX_CHARS", &c.BatchMaxChars)
	num("WORKERS", &c.Workers)
	num("HTTP_TIMEOUT_SEC", &c.HTTPTimeoutSec)
	num("MAX_RETRIES", &c.MaxRetries)

	str("TRANSLATOR_DOCUMENT_ENDPOINT", &c.Translator.Endpoint)
	str("TRANSLATOR_KEY", &c.Translator.Key)
	str("TRANSLATOR_REGION", &c.Translator.Region)
	flag("USE_MOCK_TRANSLATOR", &c.Translator.Mock)

	str("LLM_PROVIDER", &c.LLM.Provider)
	str("LLM_GATEWAY_URL", &c.LLM.GatewayURL)
	str("LLM_API_KEY", &c.LLM.APIKey)
	str("LLM_MODEL", &c.LLM.Model)
	str("AZURE_OPENAI_API_ENDPOINT", &c.LLM.AzureEndpoint)
	str("AZURE_OPENAI_API_KEY", &c.LLM.AzureAPIKey)
	str("AZURE_OPENAI_API_VERSION", &c.LLM.AzureAPIVersion)
	str("AZURE_OPENAI_MODEL_NAME", &c.LLM.AzureDeployment)
	str("GEMINI_API_KEY", &c.LLM.GeminiAPIKey)
	var mockLLM bool
	flag("USE_MOCK_LLM", &mockLLM)
	if mockLLM {
		c.LLM.Provider = "mock"
	}

	str("LANGUAGE_SERVICE_ENDPOINT", &c.QA.Endpoint)
	str("LANGUAGE_SERVICE_KEY", &c.QA.Key)
	flag("USE_MOCK_QA", &c.QA.Mock)

	str("PORT", &c.Port)
	str("LOG_FILE", &c.LogFile)
	return firstErr
}

// HTTPTimeout is the per-call timeout for every external service.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// ResolvedLLMProvider picks a provider when none was set explicitly.
func (c Config) ResolvedLLMProvider() string {
	if c.LLM.Provider != "" {
		return strings.ToLower(c.LLM.Provider)
	}
	switch {
	case c.LLM.AzureEndpoint != "":
		return "azure"
	case c.LLM.GeminiAPIKey != "":
		return "gemini"
	default:
		return "openai"
	}
}

// Validate checks limits and normalizes language codes.
func (c *Config) Validate() error {
	if c.BatchMaxItems <= 0 {
		return fmt.Errorf("batch_max_items must be > 0, got %d", c.BatchMaxItems)
	}
	if c.BatchMaxChars <= 0 {
		return fmt.Errorf("batch_max_chars must be > 0, got %d", c.BatchMaxChars)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.HTTPTimeoutSec <= 0 {
		return fmt.Errorf("http_timeout_sec must be > 0, got %d", c.HTTPTimeoutSec)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if !strings.EqualFold(c.SourceLang, "auto") {
		tag, err := NormalizeLang(c.SourceLang)
		if err != nil {
			return fmt.Errorf("source_lang: %w", err)
		}
		c.SourceLang = tag
	} else {
		c.SourceLang = "auto"
	}
	tag, err := NormalizeLang(c.TargetLang)
	if err != nil {
		return fmt.Errorf("target_lang: %w", err)
	}
	c.TargetLang = tag
	switch c.ResolvedLLMProvider() {
	case "openai", "azure", "gemini", "mock":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

// NormalizeLang parses a BCP 47 code and returns its canonical form.
func NormalizeLang(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag.String(), nil
}
