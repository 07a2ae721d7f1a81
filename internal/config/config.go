package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	StorageModeMemory   = "memory"
	StorageModeSQLite   = "sqlite"
	StorageModePostgres = "postgres"
	StorageModeAuto     = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

func (c S3Config) MissingRequired() []string {
	fields := []struct{ key, val string }{
		{"S3_ENDPOINT", c.Endpoint},
		{"S3_REGION", c.Region},
		{"S3_BUCKET", c.Bucket},
		{"S3_ACCESS_KEY_ID", c.AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", c.SecretAccessKey},
		{"S3_PUBLIC_BASE_URL", c.PublicBaseURL},
	}
	missing := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.key)
		}
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// Diagnostics classifies the S3 settings for the startup log line.
func (c S3Config) Diagnostics() (level string, code string, msg string) {
	missing := c.MissingRequired()
	switch {
	case len(missing) == 6:
		return "INFO", "s3_not_configured", "not configured (all empty)"
	case len(missing) > 0:
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}
	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary describes the settings without secrets.
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// Config holds every runtime setting of the diary service.
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Storage
	StorageMode            string // memory | sqlite | postgres | auto
	SQLitePath             string
	DatabaseURL            string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw         string
	DatabaseURLPooled      string
	DatabaseURLDirect      string // for migrations / DDL (may be empty)
	RunMigrationsOnStartup bool

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	Blob BlobConfig

	// Diary exports
	ReportsMaxRangeDays int

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Remote collaborators
	RecipeAPIURL            string
	RecipeAPITimeoutSeconds int
	OFFBaseURL              string
	RemoteUserAgent         string

	// Background work
	SeedOnStartup           bool
	GoalSyncIntervalMinutes int
	DashboardRefreshSeconds int
}

// source resolves a key from the process environment first and the YAML
// overlay second.
type source struct {
	overlay map[string]string
}

func (s source) get(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return s.overlay[key]
}

// Load reads CONFIG_FILE (if set) as a YAML overlay and then the environment.
func Load() *Config {
	src := source{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		overlay, err := readOverlay(path)
		if err != nil {
			log.Printf("WARNING: config file %s ignored: %v", path, err)
		} else {
			src.overlay = overlay
		}
	}
	return src.load()
}

// LoadFile is Load with an explicit overlay path.
func LoadFile(path string) (*Config, error) {
	overlay, err := readOverlay(path)
	if err != nil {
		return nil, err
	}
	return source{overlay: overlay}.load(), nil
}

// readOverlay parses a flat YAML mapping of setting names to scalar values,
// e.g. `STORAGE_MODE: sqlite`.
func readOverlay(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return out, nil
}

func (s source) load() *Config {
	env := s.get("APP_ENV")
	if env == "" {
		env = "local"
	}

	logLevel := s.get("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Storage ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(s.get("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(s.get("DATABASE_URL"))
	dbDirect := strings.TrimSpace(s.get("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	storageMode := s.oneOf("STORAGE_MODE", StorageModeAuto,
		StorageModeMemory, StorageModeSQLite, StorageModePostgres, StorageModeAuto)
	if storageMode == StorageModePostgres && runtimeDB == "" {
		log.Printf("WARNING: STORAGE_MODE=postgres without DATABASE_URL, fallback to %s", StorageModeSQLite)
		storageMode = StorageModeSQLite
	}

	sqlitePath := strings.TrimSpace(s.get("SQLITE_PATH"))
	if sqlitePath == "" {
		sqlitePath = "data/health-diary.db"
	}

	// ---------- Blob / S3 ----------
	s3PresignTTL := s.envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}
	blobCfg := BlobConfig{
		Mode: s.oneOf("BLOB_MODE", BlobModeLocal, BlobModeLocal, BlobModeS3, BlobModeAuto),
		S3: S3Config{
			Endpoint:          strings.TrimSpace(s.get("S3_ENDPOINT")),
			Region:            strings.TrimSpace(s.get("S3_REGION")),
			Bucket:            strings.TrimSpace(s.get("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(s.get("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(s.get("S3_SECRET_ACCESS_KEY")),
			PublicBaseURL:     strings.TrimSpace(s.get("S3_PUBLIC_BASE_URL")),
			PresignTTLSeconds: s3PresignTTL,
			PreferPublicURL:   s.parseBool("S3_PREFER_PUBLIC_URL"),
		},
	}

	// ---------- Auth ----------
	authMode := s.oneOf("AUTH_MODE", "none", "none", "dev")
	authRequired := authMode != "none" && s.parseBool("AUTH_REQUIRED")

	jwtSecret := s.get("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}
	jwtIssuer := s.get("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "health-diary"
	}

	// ---------- Remote ----------
	offBaseURL := strings.TrimRight(strings.TrimSpace(s.get("OFF_BASE_URL")), "/")
	if offBaseURL == "" {
		offBaseURL = "https://world.openfoodfacts.org"
	}
	recipeTimeout := s.envInt("RECIPE_API_TIMEOUT_SECONDS", 12)
	if recipeTimeout <= 0 {
		recipeTimeout = 12
	}
	userAgent := strings.TrimSpace(s.get("REMOTE_USER_AGENT"))
	if userAgent == "" {
		userAgent = "health-diary/1.0"
	}

	return &Config{
		Env:      env,
		Port:     s.envInt("PORT", 8080),
		LogLevel: logLevel,

		StorageMode:            storageMode,
		SQLitePath:             sqlitePath,
		DatabaseURL:            runtimeDB,
		DatabaseURLRaw:         dbURL,
		DatabaseURLPooled:      dbPooled,
		DatabaseURLDirect:      dbDirect,
		RunMigrationsOnStartup: s.parseBoolDefault("RUN_MIGRATIONS_ON_STARTUP", true),

		CORSAllowedOrigins:   parseCORSOrigins(s.get("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: s.parseBool("CORS_ALLOW_CREDENTIALS"),

		RateLimitRPS:   s.envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: s.envInt("RATE_LIMIT_BURST", 0),

		Blob: blobCfg,

		ReportsMaxRangeDays: s.envInt("REPORTS_MAX_RANGE_DAYS", 90),

		AuthMode:      authMode,
		AuthRequired:  authRequired,
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: s.envInt("JWT_TTL_MINUTES", 10080),

		RecipeAPIURL:            strings.TrimRight(strings.TrimSpace(s.get("RECIPE_API_URL")), "/"),
		RecipeAPITimeoutSeconds: recipeTimeout,
		OFFBaseURL:              offBaseURL,
		RemoteUserAgent:         userAgent,

		SeedOnStartup:           s.parseBool("SEED_ON_STARTUP"),
		GoalSyncIntervalMinutes: s.envInt("GOAL_SYNC_INTERVAL_MINUTES", 15),
		DashboardRefreshSeconds: s.envInt("DASHBOARD_REFRESH_SECONDS", 60),
	}
}

// ResolvedStorageMode turns "auto" into a concrete backend.
func (c *Config) ResolvedStorageMode() string {
	if c.StorageMode != StorageModeAuto {
		return c.StorageMode
	}
	if c.DatabaseURL != "" {
		return StorageModePostgres
	}
	return StorageModeSQLite
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// oneOf reads an enumerated setting, warning and falling back on unknown values.
func (s source) oneOf(key, defaultVal string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(s.get(key)))
	if v == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	log.Printf("WARNING: unknown %s=%q, fallback to %s", key, v, defaultVal)
	return defaultVal
}

func (s source) envInt(key string, defaultVal int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s.get(key)))
	if err != nil {
		return defaultVal
	}
	return v
}

func (s source) parseBool(key string) bool {
	return s.parseBoolDefault(key, false)
}

func (s source) parseBoolDefault(key string, defaultVal bool) bool {
	v := strings.ToLower(strings.TrimSpace(s.get(key)))
	switch v {
	case "":
		return defaultVal
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
