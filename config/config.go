package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Session string `json:"session" yaml:"session"`
	} `json:"secretKey" yaml:"secretKey"`

	// Catalog configures the external inventory collaborator.
	Catalog *CatalogConfig `json:"catalog" yaml:"catalog"`

	// Discount configures the volume discount.
	Discount *DiscountConfig `json:"discount" yaml:"discount"`

	// Verification configures the simulated identity verification step.
	Verification *VerificationConfig `json:"verification" yaml:"verification"`

	// Payment configures the simulated payment step timers.
	Payment *PaymentConfig `json:"payment" yaml:"payment"`

	// QRCode configuration for table-sharing QR codes.
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// TestRoutes configuration for testing endpoints.
	TestRoutes *TestRoutesConfig `json:"testRoutes" yaml:"testRoutes"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// CatalogConfig defines the inventory collaborator endpoint and identity.
type CatalogConfig struct {
	BaseURL        string        `json:"baseUrl" yaml:"baseUrl"`
	OrganizationID int64         `json:"organizationId" yaml:"organizationId"`
	APIKey         string        `json:"apiKey" yaml:"apiKey"`
	Timeout        time.Duration `json:"timeout" yaml:"timeout"`

	// CacheTTL bounds how long the aggregated menu is served from the
	// read-through cache before a refetch.
	CacheTTL time.Duration `json:"cacheTtl" yaml:"cacheTtl"`
}

// DiscountConfig defines the volume discount threshold and percentage.
// ThresholdCents defaults to 2000 (20.00 EUR), Percent to 5.
type DiscountConfig struct {
	ThresholdCents int64 `json:"thresholdCents" yaml:"thresholdCents"`
	Percent        int   `json:"percent" yaml:"percent"`
}

// VerificationConfig defines the simulated identity verification step.
type VerificationConfig struct {
	// CodeLength is the required number of digits in the verification
	// code (11, the national personal code length).
	CodeLength int `json:"codeLength" yaml:"codeLength"`

	// ConfirmDelay is the simulated out-of-band confirmation delay
	// between the Waiting and Confirmed substeps.
	ConfirmDelay time.Duration `json:"confirmDelay" yaml:"confirmDelay"`
}

// PaymentConfig defines the fixed timers of the simulated payment flow.
type PaymentConfig struct {
	PreparingDelay   time.Duration `json:"preparingDelay" yaml:"preparingDelay"`
	RedirectingDelay time.Duration `json:"redirectingDelay" yaml:"redirectingDelay"`
	AwaitingDelay    time.Duration `json:"awaitingDelay" yaml:"awaitingDelay"`
}

// QRCodeConfig defines QR code generation configuration.
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
}

// TestRoutesConfig defines configuration for testing endpoints
type TestRoutesConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills the documented defaults for sections left out of the
// YAML file.
func applyDefaults(cfg *Config) {
	if cfg.Discount == nil {
		cfg.Discount = &DiscountConfig{}
	}
	if cfg.Discount.ThresholdCents == 0 {
		cfg.Discount.ThresholdCents = 2000
	}
	if cfg.Discount.Percent == 0 {
		cfg.Discount.Percent = 5
	}

	if cfg.Verification == nil {
		cfg.Verification = &VerificationConfig{}
	}
	if cfg.Verification.CodeLength == 0 {
		cfg.Verification.CodeLength = 11
	}
	if cfg.Verification.ConfirmDelay == 0 {
		cfg.Verification.ConfirmDelay = 1500 * time.Millisecond
	}

	if cfg.Payment == nil {
		cfg.Payment = &PaymentConfig{}
	}
	if cfg.Payment.PreparingDelay == 0 {
		cfg.Payment.PreparingDelay = 800 * time.Millisecond
	}
	if cfg.Payment.RedirectingDelay == 0 {
		cfg.Payment.RedirectingDelay = 1200 * time.Millisecond
	}
	if cfg.Payment.AwaitingDelay == 0 {
		cfg.Payment.AwaitingDelay = 1800 * time.Millisecond
	}

	if cfg.Catalog == nil {
		cfg.Catalog = &CatalogConfig{}
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 10 * time.Second
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = 30 * time.Second
	}

	if cfg.QRCode == nil {
		cfg.QRCode = &QRCodeConfig{}
	}
	if cfg.QRCode.Size == 0 {
		cfg.QRCode.Size = 256
	}
	if cfg.QRCode.ErrorCorrectionLevel == "" {
		cfg.QRCode.ErrorCorrectionLevel = "M"
	}

	if cfg.TestRoutes == nil {
		cfg.TestRoutes = &TestRoutesConfig{}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
