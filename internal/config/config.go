package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Summary providers accepted by SUMMARY_PROVIDER.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Series generation.
	SeriesStartYear  int
	SeriesEndYear    int
	SeriesSeed       int64
	SeriesNoiseScale float64
	SeriesCacheSize  int

	// CO2 forecast.
	ForecastHorizon    int
	ForecastCutoffYear int

	// Region map data sources, tried in order: file, URL, bundled.
	RegionsFile    string
	RegionsURL     string
	RegionsSeed    int64
	RegionsTimeout time.Duration

	// Hugging Face inference configuration.
	HFAPIKey       string
	HFAPIURL       string
	HFSummaryModel string
	HFQAModel      string
	HFTimeout      time.Duration

	// Summarization backend selection.
	SummaryProvider string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string

	// Insight history; empty disables persistence.
	InsightsDBPath string

	// Forecast publishing; disabled when no brokers are set.
	KafkaBrokers       []string
	KafkaForecastTopic string
	KafkaEnabled       bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RegionsFile: sharedcfg.EnvOrDefault("REGIONS_FILE", "data/ne_110m_admin_0_countries.geojson"),
		RegionsURL:  os.Getenv("REGIONS_URL"),

		HFAPIKey:       os.Getenv("HF_API_KEY"),
		HFAPIURL:       sharedcfg.EnvOrDefault("HF_API_URL", "https://api-inference.huggingface.co/models"),
		HFSummaryModel: sharedcfg.EnvOrDefault("HF_SUMMARY_MODEL", "facebook/bart-large-cnn"),
		HFQAModel:      sharedcfg.EnvOrDefault("HF_QA_MODEL", "deepset/roberta-base-squad2"),

		SummaryProvider: sharedcfg.EnvOrDefault("SUMMARY_PROVIDER", ProviderHuggingFace),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:     sharedcfg.EnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),

		InsightsDBPath: os.Getenv("INSIGHTS_DB_PATH"),

		KafkaForecastTopic: sharedcfg.EnvOrDefault("KAFKA_FORECAST_TOPIC", "climate-forecasts"),
	}

	if err := cfg.loadNumeric(); err != nil {
		return nil, err
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}
	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadNumeric() error {
	var err error
	if c.SeriesStartYear, err = envInt("SERIES_START_YEAR", 1900); err != nil {
		return err
	}
	if c.SeriesEndYear, err = envInt("SERIES_END_YEAR", 2023); err != nil {
		return err
	}
	seed, err := envInt("SERIES_SEED", 42)
	if err != nil {
		return err
	}
	c.SeriesSeed = int64(seed)
	if c.SeriesNoiseScale, err = envFloat("SERIES_NOISE_SCALE", 1.0); err != nil {
		return err
	}
	if c.SeriesCacheSize, err = envPositiveInt("SERIES_CACHE_SIZE", 64); err != nil {
		return err
	}
	if c.ForecastHorizon, err = envPositiveInt("FORECAST_HORIZON", 10); err != nil {
		return err
	}
	if c.ForecastCutoffYear, err = envInt("FORECAST_CUTOFF_YEAR", 2000); err != nil {
		return err
	}
	regionsSeed, err := envInt("REGIONS_SEED", 42)
	if err != nil {
		return err
	}
	c.RegionsSeed = int64(regionsSeed)
	if c.RegionsTimeout, err = envDuration("REGIONS_TIMEOUT", "10s"); err != nil {
		return err
	}
	if c.HFTimeout, err = envDuration("HF_TIMEOUT", "30s"); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.GeneratorParams().Validate(); err != nil {
		return fmt.Errorf("SERIES_*: %w", err)
	}
	if c.ForecastHorizon > domain.MaxForecastHorizon {
		return fmt.Errorf("invalid FORECAST_HORIZON: must be at most %d", domain.MaxForecastHorizon)
	}
	switch c.SummaryProvider {
	case ProviderHuggingFace:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("SUMMARY_PROVIDER is openai but OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("invalid SUMMARY_PROVIDER %q", c.SummaryProvider)
	}
	if c.KafkaEnabled && c.KafkaForecastTopic == "" {
		return errors.New("KAFKA_FORECAST_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// GeneratorParams returns the configured default series parameters.
func (c *Config) GeneratorParams() domain.GeneratorParams {
	return domain.GeneratorParams{
		StartYear:  c.SeriesStartYear,
		EndYear:    c.SeriesEndYear,
		Seed:       c.SeriesSeed,
		NoiseScale: c.SeriesNoiseScale,
		Trend:      domain.DefaultTrend(),
	}
}

// AIEnabled reports whether question answering is available. Summaries may
// additionally come from OpenAI.
func (c *Config) AIEnabled() bool {
	return c.HFAPIKey != ""
}

func envInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

func envPositiveInt(name string, def int) (int, error) {
	n, err := envInt(name, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return n, nil
}

func envFloat(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return f, nil
}

func envDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}
