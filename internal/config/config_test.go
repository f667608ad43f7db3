package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ENV", "PORT", "HOST", "STORE_DRIVER", "JWT_SECRET", "SECRET_KEY", "ALLOWED_ORIGINS", "AVATAR_BACKEND", "SMTP_PORT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Host)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, AvatarLocal, cfg.AvatarBackend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("HOST", "https://api.example.com/")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("SECRET_KEY", "from-secret-key")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.example.com", cfg.Host)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "from-secret-key", cfg.JWTSecret)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.MinioUseSSL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{StoreDriver: StoreMemory, AvatarBackend: AvatarLocal}, false},
		{"unknown store", Config{StoreDriver: "sqlite", AvatarBackend: AvatarLocal}, true},
		{"unknown avatar backend", Config{StoreDriver: StoreMongo, AvatarBackend: "s3"}, true},
		{"cloudinary without credentials", Config{StoreDriver: StoreMongo, AvatarBackend: AvatarCloudinary}, true},
		{"minio without credentials", Config{StoreDriver: StoreMongo, AvatarBackend: AvatarMinio}, true},
		{"production without secret", Config{Environment: "production", StoreDriver: StoreMongo, AvatarBackend: AvatarLocal}, true},
		{"production with secret", Config{Environment: "production", StoreDriver: StoreMongo, AvatarBackend: AvatarLocal, JWTSecret: "s"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tc.cfg.JWTSecret)
		})
	}
}
