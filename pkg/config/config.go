package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultTimezoneOffset is the UTC offset applied to schedule times when building calendar events.
const DefaultTimezoneOffset = "+05:30"

var timezoneOffsetPattern = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)

type Config struct {
	Env         string
	Port        int
	APIPrefix   string
	FrontendURL string
	PublicURL   string

	Database      DatabaseConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	Google        GoogleConfig
	Calendar      CalendarConfig
	Mail          MailConfig
	Storage       StorageConfig
	Notifications NotificationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GoogleConfig holds OAuth client credentials and optional endpoint overrides.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	StateSecret  string
	StateTTL     time.Duration
	VerifyState  bool
}

// CalendarConfig tunes how timetables are pushed to the calendar provider.
type CalendarConfig struct {
	CalendarID     string
	TimezoneOffset string
	SyncDelay      time.Duration
	ColorID        string
}

// MailConfig configures the SMTP transport used for notification emails.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StorageConfig controls where offer letters are written and how download links are signed.
// BucketURL takes precedence; an empty value falls back to a file bucket rooted at OfferLetterDir.
type StorageConfig struct {
	BucketURL       string
	OfferLetterDir  string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// NotificationConfig sizes the background notification queue.
type NotificationConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.FrontendURL = strings.TrimRight(v.GetString("FRONTEND_URL"), "/")
	cfg.PublicURL = strings.TrimRight(v.GetString("PUBLIC_URL"), "/")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Google = GoogleConfig{
		ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		AuthURL:      v.GetString("GOOGLE_AUTH_URL"),
		TokenURL:     v.GetString("GOOGLE_TOKEN_URL"),
		APIBaseURL:   v.GetString("GOOGLE_API_BASE_URL"),
		StateSecret:  v.GetString("GOOGLE_OAUTH_STATE_SECRET"),
		StateTTL:     parseDuration(v.GetString("GOOGLE_OAUTH_STATE_TTL"), 10*time.Minute),
		VerifyState:  v.GetBool("GOOGLE_OAUTH_VERIFY_STATE"),
	}

	cfg.Calendar = CalendarConfig{
		CalendarID:     v.GetString("CALENDAR_ID"),
		TimezoneOffset: v.GetString("DEFAULT_TIMEZONE_OFFSET"),
		SyncDelay:      parseDuration(v.GetString("CALENDAR_SYNC_DELAY"), 300*time.Millisecond),
		ColorID:        v.GetString("CALENDAR_COLOR_ID"),
	}

	cfg.Mail = MailConfig{
		Host:     v.GetString("SMTP_HOST"),
		Port:     v.GetInt("SMTP_PORT"),
		Username: v.GetString("SMTP_USER"),
		Password: v.GetString("SMTP_PASSWORD"),
		From:     v.GetString("MAIL_FROM"),
	}

	cfg.Storage = StorageConfig{
		BucketURL:       v.GetString("OFFER_LETTER_BUCKET_URL"),
		OfferLetterDir:  v.GetString("OFFER_LETTER_STORAGE_DIR"),
		SignedURLSecret: v.GetString("OFFER_LETTER_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("OFFER_LETTER_SIGNED_URL_TTL"), 7*24*time.Hour),
	}

	cfg.Notifications = NotificationConfig{
		Workers:    v.GetInt("NOTIFICATION_WORKERS"),
		MaxRetries: v.GetInt("NOTIFICATION_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICATION_RETRY_DELAY"), 2*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations that cannot serve the OAuth flow or build calendar times.
func (c *Config) validate() error {
	var missing []string
	if c.Google.ClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.Google.ClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.Google.RedirectURI == "" {
		missing = append(missing, "GOOGLE_REDIRECT_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing google oauth configuration: %s", strings.Join(missing, ", "))
	}
	if c.Google.VerifyState && c.Google.StateSecret == "" {
		return fmt.Errorf("GOOGLE_OAUTH_STATE_SECRET is required when state verification is enabled")
	}
	if !timezoneOffsetPattern.MatchString(c.Calendar.TimezoneOffset) {
		return fmt.Errorf("DEFAULT_TIMEZONE_OFFSET must look like +05:30, got %q", c.Calendar.TimezoneOffset)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("PUBLIC_URL", "http://localhost:5000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "skillnaav")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "")
	v.SetDefault("GOOGLE_AUTH_URL", "")
	v.SetDefault("GOOGLE_TOKEN_URL", "")
	v.SetDefault("GOOGLE_API_BASE_URL", "")
	v.SetDefault("GOOGLE_OAUTH_STATE_SECRET", "dev_oauth_state_secret")
	v.SetDefault("GOOGLE_OAUTH_STATE_TTL", "10m")
	v.SetDefault("GOOGLE_OAUTH_VERIFY_STATE", true)

	v.SetDefault("CALENDAR_ID", "primary")
	v.SetDefault("DEFAULT_TIMEZONE_OFFSET", DefaultTimezoneOffset)
	v.SetDefault("CALENDAR_SYNC_DELAY", "300ms")
	v.SetDefault("CALENDAR_COLOR_ID", "9")

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "skillnaav@gmail.com")

	v.SetDefault("OFFER_LETTER_BUCKET_URL", "")
	v.SetDefault("OFFER_LETTER_STORAGE_DIR", "./offer-letters")
	v.SetDefault("OFFER_LETTER_SIGNED_URL_SECRET", "dev_offer_letter_secret")
	v.SetDefault("OFFER_LETTER_SIGNED_URL_TTL", "168h")

	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATION_RETRY_DELAY", "2s")
}

func isMissingFile(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no such file")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
