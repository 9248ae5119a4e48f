package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string
	LogLevel           logging.Level

	DBURL                   string
	DBDisabled              bool
	DBDisablePreparedBinary bool

	CacheEnabled bool
	CacheTTL     time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	FPLBaseURL               string
	FPLUserAgent             string
	FPLTimeout               time.Duration
	FPLThrottle              time.Duration
	FPLMaxRetries            int
	FPLCircuitEnabled        bool
	FPLCircuitFailureCount   int
	FPLCircuitOpenTimeout    time.Duration
	FPLCircuitHalfOpenMaxReq int

	OracleEnabled     bool
	OracleBaseURL     string
	OracleAPIKey      string
	OracleModel       string
	OracleTimeout     time.Duration
	OracleMaxAttempts int

	SeasonLabel          string
	SyncRefreshInterval  time.Duration
	SyncAutoEnabled      bool
	SyncAutoInterval     time.Duration
	SyncBackfillWorkers  int
	SyncHistoryFetchWorkers int

	DifficultyHorizon int
	ValuePriceFloor   float64

	SquadBudget         float64
	SquadBudgetRatioGK  float64
	SquadBudgetRatioDEF float64
	SquadBudgetRatioMID float64
	SquadBudgetRatioFWD float64
	SquadMaxPerTeam     int

	TransferFormFloor      float64
	TransferPPGFloor       float64
	TransferPricePremium   float64
	TransferHardPPGFloor   float64
	TransferMinGain        float64
	TransferDefaultMax     int
	TransferFixtureHorizon int

	CaptainScoreFloor float64
	CaptainLimit      int
}

// Load reads configuration from environment variables, falling back to
// sensible development defaults.
func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "fpl-insight"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DBURL:          getEnv("DATABASE_URL", ""),
		PprofAddr:      getEnv("PPROF_ADDR", "127.0.0.1:6060"),
		UptraceDSN:     strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),

		PyroscopeServerAddress:     getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "fpl-insight"),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),

		FPLBaseURL:   getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api"),
		FPLUserAgent: getEnv("FPL_USER_AGENT", "fpl-insight/1.0"),

		OracleBaseURL: getEnv("ORACLE_BASE_URL", "https://api.openai.com/v1"),
		OracleAPIKey:  getEnv("ORACLE_API_KEY", ""),
		OracleModel:   getEnv("ORACLE_MODEL", "gpt-4o-mini"),

		SeasonLabel: getEnv("SEASON_LABEL", "2025-26"),

		InternalJobToken:   getEnv("INTERNAL_JOB_TOKEN", ""),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := loadBools(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadDurations(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadInts(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadFloats(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if !cfg.DBDisabled && cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required unless DB_DISABLED=true")
	}
	if cfg.OracleEnabled && cfg.OracleAPIKey == "" {
		return Config{}, fmt.Errorf("ORACLE_API_KEY is required when ORACLE_ENABLED=true")
	}

	return cfg, nil
}

func loadBools(cfg *Config) error {
	items := []struct {
		key      string
		fallback string
		dst      *bool
	}{
		{"DB_DISABLED", "false", &cfg.DBDisabled},
		{"DB_DISABLE_PREPARED_BINARY", "false", &cfg.DBDisablePreparedBinary},
		{"CACHE_ENABLED", "true", &cfg.CacheEnabled},
		{"PPROF_ENABLED", "false", &cfg.PprofEnabled},
		{"UPTRACE_ENABLED", "false", &cfg.UptraceEnabled},
		{"UPTRACE_LOGS_ENABLED", "true", &cfg.UptraceLogsEnabled},
		{"PYROSCOPE_ENABLED", "false", &cfg.PyroscopeEnabled},
		{"FPL_CIRCUIT_ENABLED", "true", &cfg.FPLCircuitEnabled},
		{"ORACLE_ENABLED", "false", &cfg.OracleEnabled},
		{"SYNC_AUTO_ENABLED", "true", &cfg.SyncAutoEnabled},
	}
	for _, item := range items {
		value, err := strconv.ParseBool(getEnv(item.key, item.fallback))
		if err != nil {
			return fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}
	return nil
}

func loadDurations(cfg *Config) error {
	items := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", "15s", &cfg.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", "30s", &cfg.WriteTimeout},
		{"CACHE_TTL", "5m", &cfg.CacheTTL},
		{"PYROSCOPE_UPLOAD_RATE", "15s", &cfg.PyroscopeUploadRate},
		{"FPL_TIMEOUT", "10s", &cfg.FPLTimeout},
		{"FPL_THROTTLE", "250ms", &cfg.FPLThrottle},
		{"FPL_CIRCUIT_OPEN_TIMEOUT", "30s", &cfg.FPLCircuitOpenTimeout},
		{"ORACLE_TIMEOUT", "20s", &cfg.OracleTimeout},
		{"SYNC_REFRESH_INTERVAL", "6h", &cfg.SyncRefreshInterval},
		{"SYNC_AUTO_INTERVAL", "1h", &cfg.SyncAutoInterval},
	}
	for _, item := range items {
		value, err := time.ParseDuration(getEnv(item.key, item.fallback))
		if err != nil {
			return fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}
	return nil
}

func loadInts(cfg *Config) error {
	items := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"FPL_MAX_RETRIES", 2, &cfg.FPLMaxRetries},
		{"FPL_CIRCUIT_FAILURE_COUNT", 5, &cfg.FPLCircuitFailureCount},
		{"FPL_CIRCUIT_HALF_OPEN_MAX_REQ", 2, &cfg.FPLCircuitHalfOpenMaxReq},
		{"ORACLE_MAX_ATTEMPTS", 1, &cfg.OracleMaxAttempts},
		{"SYNC_BACKFILL_WORKERS", 4, &cfg.SyncBackfillWorkers},
		{"SYNC_HISTORY_FETCH_WORKERS", 3, &cfg.SyncHistoryFetchWorkers},
		{"DIFFICULTY_HORIZON", 5, &cfg.DifficultyHorizon},
		{"SQUAD_MAX_PER_TEAM", 3, &cfg.SquadMaxPerTeam},
		{"TRANSFER_DEFAULT_MAX", 2, &cfg.TransferDefaultMax},
		{"TRANSFER_FIXTURE_HORIZON", 3, &cfg.TransferFixtureHorizon},
		{"CAPTAIN_LIMIT", 10, &cfg.CaptainLimit},
	}
	for _, item := range items {
		value, err := getEnvAsInt(item.key, item.fallback)
		if err != nil {
			return fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}
	return nil
}

func loadFloats(cfg *Config) error {
	items := []struct {
		key      string
		fallback float64
		dst      *float64
	}{
		{"VALUE_PRICE_FLOOR", 4.0, &cfg.ValuePriceFloor},
		{"SQUAD_BUDGET", 100.0, &cfg.SquadBudget},
		{"SQUAD_BUDGET_RATIO_GK", 0.10, &cfg.SquadBudgetRatioGK},
		{"SQUAD_BUDGET_RATIO_DEF", 0.25, &cfg.SquadBudgetRatioDEF},
		{"SQUAD_BUDGET_RATIO_MID", 0.45, &cfg.SquadBudgetRatioMID},
		{"SQUAD_BUDGET_RATIO_FWD", 0.20, &cfg.SquadBudgetRatioFWD},
		{"TRANSFER_FORM_FLOOR", 3.0, &cfg.TransferFormFloor},
		{"TRANSFER_PPG_FLOOR", 4.0, &cfg.TransferPPGFloor},
		{"TRANSFER_PRICE_PREMIUM", 6.0, &cfg.TransferPricePremium},
		{"TRANSFER_HARD_PPG_FLOOR", 2.0, &cfg.TransferHardPPGFloor},
		{"TRANSFER_MIN_GAIN", 0.5, &cfg.TransferMinGain},
		{"CAPTAIN_SCORE_FLOOR", 10.0, &cfg.CaptainScoreFloor},
	}
	for _, item := range items {
		value, err := getEnvAsFloat(item.key, item.fallback)
		if err != nil {
			return fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
