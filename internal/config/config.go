package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                          string
	ServiceName                     string
	ServiceVersion                  string
	HTTPAddr                        string
	DBURL                           string
	DBBinaryParameters              bool
	DBBootstrapSeed                 bool
	CacheEnabled                    bool
	CacheTTL                        time.Duration
	CORSAllowedOrigins              []string
	ReadTimeout                     time.Duration
	WriteTimeout                    time.Duration
	PprofEnabled                    bool
	PprofAddr                       string
	SwaggerEnabled                  bool
	AdminUserIDs                    []string
	AnubisBaseURL                   string
	AnubisIntrospectURL             string
	AnubisAdminKey                  string
	AnubisTimeout                   time.Duration
	AnubisPrincipalTTL              time.Duration
	AnubisCircuitEnabled            bool
	AnubisCircuitFailureCount       int
	AnubisCircuitOpenTimeout        time.Duration
	AnubisCircuitHalfOpenMaxReq     int
	UptraceEnabled                  bool
	UptraceDSN                      string
	UptraceLogsEnabled              bool
	PyroscopeEnabled                bool
	PyroscopeServerAddress          string
	PyroscopeAppName                string
	PyroscopeAuthToken              string
	PyroscopeBasicAuthUser          string
	PyroscopeBasicAuthPassword      string
	PyroscopeUploadRate             time.Duration
	SportMonksEnabled               bool
	SportMonksBaseURL               string
	SportMonksToken                 string
	SportMonksSeasonID              int64
	SportMonksTimeout               time.Duration
	SportMonksMaxRetries            int
	SportMonksRetryBackoff          time.Duration
	SportMonksCircuitEnabled        bool
	SportMonksCircuitFailureCount   int
	SportMonksCircuitOpenTimeout    time.Duration
	SportMonksCircuitHalfOpenMaxReq int
	InternalJobToken                string
	QStashEnabled                   bool
	QStashBaseURL                   string
	QStashToken                     string
	QStashTargetBaseURL             string
	QStashRetries                   int
	QStashTimeout                   time.Duration
	QStashCircuitEnabled            bool
	QStashCircuitFailureCount       int
	QStashCircuitOpenTimeout        time.Duration
	QStashCircuitHalfOpenMaxReq     int
	JobSyncInterval                 time.Duration
	JobScoreInterval                time.Duration
	JobStandingsInterval            time.Duration
	JobStandingsDelay               time.Duration
	StandingsWorkers                int
	LogLevel                        logging.Level
}

// circuitSettings is the shape shared by every outbound client breaker.
type circuitSettings struct {
	enabled        bool
	failureCount   int
	openTimeout    time.Duration
	halfOpenMaxReq int
}

// envReader reads typed environment values and keeps the first error, so Load
// can read every setting and check once at the end.
type envReader struct {
	err error
}

func (r *envReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

func (r *envReader) check(ok bool, format string, args ...any) {
	if !ok {
		r.fail(format, args...)
	}
}

func (r *envReader) str(key, fallback string) string {
	return strings.TrimSpace(getEnv(key, fallback))
}

func (r *envReader) boolean(key string, fallback bool) bool {
	out, err := strconv.ParseBool(r.str(key, strconv.FormatBool(fallback)))
	if err != nil {
		r.fail("parse %s: %w", key, err)
	}
	return out
}

// integer parses key and enforces a lower bound.
func (r *envReader) integer(key string, fallback, lowest int) int {
	out, err := strconv.Atoi(r.str(key, strconv.Itoa(fallback)))
	if err != nil {
		r.fail("parse %s: %w", key, err)
		return fallback
	}
	r.check(out >= lowest, "%s must be >= %d", key, lowest)
	return out
}

func (r *envReader) integer64(key string, fallback int64) int64 {
	out, err := strconv.ParseInt(r.str(key, strconv.FormatInt(fallback, 10)), 10, 64)
	if err != nil {
		r.fail("parse %s: %w", key, err)
	}
	return out
}

func (r *envReader) duration(key, fallback string) time.Duration {
	out, err := time.ParseDuration(r.str(key, fallback))
	if err != nil {
		r.fail("parse %s: %w", key, err)
	}
	return out
}

func (r *envReader) positive(key, fallback string) time.Duration {
	out := r.duration(key, fallback)
	r.check(out > 0, "%s must be > 0", key)
	return out
}

// circuit reads <prefix>_CIRCUIT_* for one outbound client breaker.
func (r *envReader) circuit(prefix string) circuitSettings {
	return circuitSettings{
		enabled:        r.boolean(prefix+"_CIRCUIT_ENABLED", true),
		failureCount:   r.integer(prefix+"_CIRCUIT_FAILURE_COUNT", 5, 1),
		openTimeout:    r.positive(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"),
		halfOpenMaxReq: r.integer(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),
	}
}

// Load reads the service configuration from the environment.
func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	notProd := appEnv != EnvProd

	r := &envReader{}
	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        r.str("APP_SERVICE_NAME", "pickem-league-api"),
		ServiceVersion:     r.str("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           r.str("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        r.duration("APP_READ_TIMEOUT", "10s"),
		WriteTimeout:       r.duration("APP_WRITE_TIMEOUT", "15s"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		SwaggerEnabled:     r.boolean("SWAGGER_ENABLED", notProd),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminUserIDs:       splitCSV(getEnv("ADMIN_USER_IDS", "")),

		DBURL:              r.str("DB_URL", ""),
		DBBinaryParameters: r.boolean("DB_BINARY_PARAMETERS", true),
		DBBootstrapSeed:    r.boolean("DB_BOOTSTRAP_SEED", notProd),
		CacheEnabled:       r.boolean("CACHE_ENABLED", true),
		CacheTTL:           r.positive("CACHE_TTL", "60s"),

		PprofEnabled:               r.boolean("PPROF_ENABLED", false),
		PprofAddr:                  r.str("PPROF_ADDR", ":6060"),
		UptraceEnabled:             r.boolean("UPTRACE_ENABLED", false),
		UptraceDSN:                 r.str("UPTRACE_DSN", ""),
		UptraceLogsEnabled:         r.boolean("UPTRACE_LOGS_ENABLED", true),
		PyroscopeEnabled:           r.boolean("PYROSCOPE_ENABLED", false),
		PyroscopeServerAddress:     r.str("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAuthToken:         r.str("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     r.str("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: r.str("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        r.positive("PYROSCOPE_UPLOAD_RATE", "15s"),

		AnubisBaseURL:       r.str("ANUBIS_BASE_URL", "http://localhost:8081"),
		AnubisIntrospectURL: r.str("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"),
		AnubisAdminKey:      r.str("ANUBIS_ADMIN_KEY", ""),
		AnubisTimeout:       r.duration("ANUBIS_TIMEOUT", "3s"),
		AnubisPrincipalTTL:  r.duration("ANUBIS_PRINCIPAL_TTL", "30s"),

		SportMonksEnabled:      r.boolean("SPORTMONKS_ENABLED", false),
		SportMonksBaseURL:      r.str("SPORTMONKS_BASE_URL", "https://api.sportmonks.com/v3/football"),
		SportMonksToken:        r.str("SPORTMONKS_TOKEN", ""),
		SportMonksSeasonID:     r.integer64("SPORTMONKS_SEASON_ID", 0),
		SportMonksTimeout:      r.positive("SPORTMONKS_TIMEOUT", "20s"),
		SportMonksMaxRetries:   r.integer("SPORTMONKS_MAX_RETRIES", 1, 0),
		SportMonksRetryBackoff: r.positive("SPORTMONKS_RETRY_BACKOFF", "300ms"),

		InternalJobToken:    r.str("INTERNAL_JOB_TOKEN", ""),
		QStashEnabled:       r.boolean("QSTASH_ENABLED", false),
		QStashBaseURL:       r.str("QSTASH_BASE_URL", "https://qstash.upstash.io"),
		QStashToken:         r.str("QSTASH_TOKEN", ""),
		QStashTargetBaseURL: r.str("QSTASH_TARGET_BASE_URL", ""),
		QStashRetries:       r.integer("QSTASH_RETRIES", 3, 0),
		QStashTimeout:       r.positive("QSTASH_TIMEOUT", "10s"),

		JobSyncInterval:      r.positive("JOB_SYNC_INTERVAL", "15m"),
		JobScoreInterval:     r.positive("JOB_SCORE_INTERVAL", "5m"),
		JobStandingsInterval: r.positive("JOB_STANDINGS_INTERVAL", "5m"),
		JobStandingsDelay:    r.duration("JOB_STANDINGS_DELAY", "30s"),
		StandingsWorkers:     r.integer("STANDINGS_WORKERS", 8, 1),
	}
	cfg.PyroscopeAppName = r.str("PYROSCOPE_APP_NAME", cfg.ServiceName)
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	anubis := r.circuit("ANUBIS")
	cfg.AnubisCircuitEnabled = anubis.enabled
	cfg.AnubisCircuitFailureCount = anubis.failureCount
	cfg.AnubisCircuitOpenTimeout = anubis.openTimeout
	cfg.AnubisCircuitHalfOpenMaxReq = anubis.halfOpenMaxReq

	sportMonks := r.circuit("SPORTMONKS")
	cfg.SportMonksCircuitEnabled = sportMonks.enabled
	cfg.SportMonksCircuitFailureCount = sportMonks.failureCount
	cfg.SportMonksCircuitOpenTimeout = sportMonks.openTimeout
	cfg.SportMonksCircuitHalfOpenMaxReq = sportMonks.halfOpenMaxReq

	qstash := r.circuit("QSTASH")
	cfg.QStashCircuitEnabled = qstash.enabled
	cfg.QStashCircuitFailureCount = qstash.failureCount
	cfg.QStashCircuitOpenTimeout = qstash.openTimeout
	cfg.QStashCircuitHalfOpenMaxReq = qstash.halfOpenMaxReq

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate checks settings that depend on one another.
func (c Config) validate() error {
	r := &envReader{}
	r.check(len(c.CORSAllowedOrigins) > 0, "CORS_ALLOWED_ORIGINS cannot be empty")
	r.check(c.JobStandingsDelay >= 0, "JOB_STANDINGS_DELAY must be >= 0")
	r.check(!c.UptraceEnabled || c.UptraceDSN != "", "UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	r.check(!c.PprofEnabled || c.PprofAddr != "", "PPROF_ADDR is required when PPROF_ENABLED=true")
	if c.PyroscopeEnabled {
		r.check(c.PyroscopeServerAddress != "", "PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		r.check(c.PyroscopeAppName != "", "PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if c.SportMonksEnabled {
		r.check(c.SportMonksToken != "", "SPORTMONKS_TOKEN is required when SPORTMONKS_ENABLED=true")
		r.check(c.SportMonksSeasonID > 0, "SPORTMONKS_SEASON_ID must be > 0 when SPORTMONKS_ENABLED=true")
	}
	if c.QStashEnabled {
		r.check(c.QStashToken != "", "QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		r.check(c.QStashTargetBaseURL != "", "QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		r.check(c.InternalJobToken != "", "INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
	}
	return r.err
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

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func splitCSV(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseUptraceDSNFromOTLPHeaders extracts uptrace-dsn from an
// OTEL_EXPORTER_OTLP_HEADERS style "k=v,k=v" list.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for item := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}
	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
