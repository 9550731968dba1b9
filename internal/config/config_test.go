package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_CONN", "postgres://localhost/market?sslmode=disable")
	t.Setenv("SESSION_SECRET", "s3cr3t")
}

func TestNewConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, SessionStorePostgres, cfg.SessionStore)
	assert.Equal(t, UploadBackendDisk, cfg.UploadBackend)
	assert.Equal(t, "public/uploads", cfg.UploadDir)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.MailEnabled())
}

func TestNewConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{"no db", "DB_CONN", "DB_CONN is required"},
		{"no secret", "SESSION_SECRET", "SESSION_SECRET is required"},
		{"no port", "PORT", "PORT is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8081")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SENDER_EMAIL", "shop@example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.MailEnabled())
}

func TestNewConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"SESSION_TTL", "tomorrow", "invalid SESSION_TTL"},
		{"BCRYPT_COST", "ten", "invalid BCRYPT_COST"},
		{"COOKIE_SECURE", "maybe", "invalid COOKIE_SECURE"},
		{"SESSION_STORE", "mongo", "unknown SESSION_STORE"},
		{"UPLOAD_BACKEND", "ftp", "unknown UPLOAD_BACKEND"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidate_S3RequiresBucketAndURL(t *testing.T) {
	cfg := &Config{
		Port:           "3000",
		DBConn:         "x",
		SessionSecret:  "y",
		SessionTTL:     time.Hour,
		SessionStore:   SessionStoreMemory,
		MaxUploadBytes: 10,
		UploadBackend:  UploadBackendS3,
	}
	require.ErrorContains(t, cfg.Validate(), "S3_BUCKET")

	cfg.S3Bucket = "avatars"
	require.ErrorContains(t, cfg.Validate(), "S3_PUBLIC_URL")

	cfg.S3PublicURL = "https://cdn.example.com"
	require.NoError(t, cfg.Validate())
}
