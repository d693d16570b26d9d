package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables and
// optionally overridden by command-line flags.
type Config struct {
	CapacityFile      string
	CurrentRunoffFile string
	FutureRunoffFile  string
	SummaryOutputFile string
	DetailOutputFile  string

	// Rows skipped at the top and bottom of every input table.
	HeaderRows int
	FooterRows int

	LogLevel  string
	LogFormat string

	// Optional assessment sinks. Empty values disable them.
	KafkaBrokers    []string
	KafkaTopic      string
	ResultsDB       string
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	headerRows, err := parseRowCount("INPUT_HEADER_ROWS", 1)
	if err != nil {
		return nil, err
	}
	footerRows, err := parseRowCount("INPUT_FOOTER_ROWS", 1)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		CapacityFile:      os.Getenv("CAPACITY_FILE"),
		CurrentRunoffFile: os.Getenv("CURRENT_RUNOFF_FILE"),
		FutureRunoffFile:  os.Getenv("FUTURE_RUNOFF_FILE"),
		SummaryOutputFile: sharedcfg.EnvOrDefault("SUMMARY_OUTPUT_FILE", "return_periods.csv"),
		DetailOutputFile:  sharedcfg.EnvOrDefault("DETAIL_OUTPUT_FILE", "culvert_results.csv"),
		HeaderRows:        headerRows,
		FooterRows:        footerRows,
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:      brokers,
		KafkaTopic:        sharedcfg.EnvOrDefault("KAFKA_TOPIC", "culvert-assessments"),
		ResultsDB:         os.Getenv("RESULTS_DB"),
		MetricsTextfile:   os.Getenv("METRICS_TEXTFILE"),
	}

	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// Validate checks the settings a run needs. It is called after flag
// overrides are applied, since input files usually come from flags.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"CAPACITY_FILE", c.CapacityFile},
		{"CURRENT_RUNOFF_FILE", c.CurrentRunoffFile},
		{"FUTURE_RUNOFF_FILE", c.FutureRunoffFile},
		{"SUMMARY_OUTPUT_FILE", c.SummaryOutputFile},
		{"DETAIL_OUTPUT_FILE", c.DetailOutputFile},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return errors.New("LOG_FORMAT must be json or text")
	}
	if c.HeaderRows < 0 || c.FooterRows < 0 {
		return errors.New("INPUT_HEADER_ROWS and INPUT_FOOTER_ROWS must not be negative")
	}
	if c.SummaryOutputFile == c.DetailOutputFile {
		return errors.New("SUMMARY_OUTPUT_FILE and DETAIL_OUTPUT_FILE must differ")
	}
	return nil
}

// KafkaEnabled reports whether assessments are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseRowCount(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}
