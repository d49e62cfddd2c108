// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	IsDevelopment() bool
}

// WhatsAppConfig selects and configures the WhatsApp transport.
type WhatsAppConfig interface {
	UseWhatsAppSimulator() bool
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketCaseDocuments() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetTaskDueSoonLead() time.Duration
	GetDeadlineWarningDays() int
	GetOverdueScanCron() string
	GetDeadlineScanCron() string
}

// LifecycleConfig provides settings for the case lifecycle engine.
type LifecycleConfig interface {
	GetCaseTransitionPolicy() string
	GetCaseTransitionsFile() string
	GetLocation() *time.Location
}

// ActorConfig provides the identity used for system-initiated writes.
type ActorConfig interface {
	GetSystemActorID() uuid.UUID
	GetSystemActorName() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	MigrationsDir        string
	JWTAccessSecret      string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	RateLimitPerSecond   float64
	RateLimitBurst       int
	AppBaseURL           string
	WhatsAppSimulator    bool
	WhatsAppURL          string
	WhatsAppKey          string
	WhatsAppDeviceID     string
	EmailEnabled         bool
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinIOMaxFileSize     int64
	MinioBucketCaseDocs  string
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	TaskDueSoonLead      time.Duration
	DeadlineWarningDays  int
	OverdueScanCron      string
	DeadlineScanCron     string
	CaseTransitionPolicy string
	CaseTransitionsFile  string
	Location             *time.Location
	SystemActorID        uuid.UUID
	SystemActorName      string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// IsAuthEnabled reports whether bearer tokens are required on the API.
func (c *Config) IsAuthEnabled() bool { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string              { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool            { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string         { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool          { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerSecond() float64   { return c.RateLimitPerSecond }
func (c *Config) GetRateLimitBurst() int           { return c.RateLimitBurst }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// WhatsAppConfig implementation
func (c *Config) UseWhatsAppSimulator() bool  { return c.WhatsAppSimulator }
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string            { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string           { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string           { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64          { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketCaseDocuments() string { return c.MinioBucketCaseDocs }
func (c *Config) IsMinIOEnabled() bool                { return c.MinIOEndpoint != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool         { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }
func (c *Config) GetTaskDueSoonLead() time.Duration { return c.TaskDueSoonLead }
func (c *Config) GetDeadlineWarningDays() int       { return c.DeadlineWarningDays }
func (c *Config) GetOverdueScanCron() string        { return c.OverdueScanCron }
func (c *Config) GetDeadlineScanCron() string       { return c.DeadlineScanCron }

// LifecycleConfig implementation
func (c *Config) GetCaseTransitionPolicy() string { return c.CaseTransitionPolicy }
func (c *Config) GetCaseTransitionsFile() string  { return c.CaseTransitionsFile }
func (c *Config) GetLocation() *time.Location     { return c.Location }

// ActorConfig implementation
func (c *Config) GetSystemActorID() uuid.UUID { return c.SystemActorID }
func (c *Config) GetSystemActorName() string  { return c.SystemActorName }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	location, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Africa/Johannesburg"))
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	systemActorID := uuid.Nil
	if raw := strings.TrimSpace(getEnv("SYSTEM_ACTOR_ID", "")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("SYSTEM_ACTOR_ID must be a UUID: %w", err)
		}
		systemActorID = parsed
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitPerSecond:   mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:       mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		AppBaseURL:           strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:4200"), "/"),
		WhatsAppSimulator:    strings.EqualFold(getEnv("WHATSAPP_USE_SIMULATOR", "true"), "true"),
		WhatsAppURL:          getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:          getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:     getEnv("WHATSAPP_DEVICE_ID", ""),
		EmailEnabled:         strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "RAF Case Management"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:     mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketCaseDocs:  getEnv("MINIO_BUCKET_CASE_DOCUMENTS", "case-documents"),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		TaskDueSoonLead:      mustDuration(getEnv("TASK_DUE_SOON_LEAD", "24h")),
		DeadlineWarningDays:  mustInt(getEnv("DEADLINE_WARNING_DAYS", "14")),
		OverdueScanCron:      getEnv("OVERDUE_SCAN_CRON", "0 7 * * *"),
		DeadlineScanCron:     getEnv("DEADLINE_SCAN_CRON", "30 7 * * *"),
		CaseTransitionPolicy: strings.ToLower(getEnv("CASE_TRANSITION_POLICY", "permissive")),
		CaseTransitionsFile:  getEnv("CASE_TRANSITIONS_FILE", ""),
		Location:             location,
		SystemActorID:        systemActorID,
		SystemActorName:      getEnv("SYSTEM_ACTOR_NAME", "System"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_ENABLED is true")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.CaseTransitionPolicy {
	case "permissive", "standard":
	default:
		return nil, fmt.Errorf("CASE_TRANSITION_POLICY must be permissive or standard, got %q", cfg.CaseTransitionPolicy)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
