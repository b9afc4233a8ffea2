package cfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/posipaka-trade/listingsms/internal/announcement"
	"github.com/posipaka-trade/listingsms/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		t.Setenv(SmsUserEnv, "12345678")
		t.Setenv(SmsPasswordEnv, "s3cr3t")

		config, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)

		assert.Equal(t, 30*time.Minute, config.Interval)
		assert.Equal(t, defaultPageUrl, config.PageUrl)
		assert.Equal(t, announcement.DefaultRule, config.Rule)
		assert.Equal(t, store.JsonBackend, config.Store.Backend)
		assert.Equal(t, "sent_items.json", config.Store.Path)
		assert.True(t, config.Sms.MarkUndelivered)
		assert.Equal(t, "12345678", config.Sms.Credentials.User)
		assert.Equal(t, "s3cr3t", config.Sms.Credentials.Password)
	})

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		path := writeFile(t, "listingsms.toml", `
interval = "5m"
http_timeout = "10s"
page_url = "https://www.binance.com/en/support/announcement/new-cryptocurrency-listing?c=48"

[rule]
version = "en-2024.1"
title_contains = "Binance Will List"

[store]
backend = "badger"
path = "data/sent_items"

[sms]
mark_undelivered = false

[log]
level = "debug"
file = "logs/listingsms.log"
max_backups = 3

[metrics]
addr = ":9102"
`)
		config, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 5*time.Minute, config.Interval)
		assert.Equal(t, 10*time.Second, config.HttpTimeout)
		assert.Equal(t, "en-2024.1", config.Rule.Version)
		assert.Equal(t, "Binance Will List", config.Rule.TitleContains)
		assert.Equal(t, announcement.DefaultRule.LinkContains, config.Rule.LinkContains)
		assert.Equal(t, store.BadgerBackend, config.Store.Backend)
		assert.Equal(t, "data/sent_items", config.Store.Path)
		assert.False(t, config.Sms.MarkUndelivered)
		assert.Equal(t, "debug", config.Log.Level)
		assert.Equal(t, "logs/listingsms.log", config.Log.File)
		assert.Equal(t, 3, config.Log.MaxBackups)
		assert.Equal(t, ":9102", config.MetricsAddr)
	})

	t.Run("MissingCredentialsIsNotAnError", func(t *testing.T) {
		t.Setenv(SmsUserEnv, "")
		t.Setenv(SmsPasswordEnv, "")

		config, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.False(t, config.Sms.Credentials.Complete())
	})

	t.Run("InvalidValues", func(t *testing.T) {
		cases := map[string]string{
			"BadDuration":   `interval = "soon"`,
			"NegativeTime":  `interval = "-1m"`,
			"WrongType":     `page_url = 42`,
			"WrongBool":     "[sms]\nmark_undelivered = \"yes\"",
			"EmptyRule":     "[rule]\ntitle_contains = \"\"",
			"BrokenToml":    `interval = `,
			"UnknownWriter": "[store]\nbackend = \"redis\"",
		}
		for name, content := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := Load(writeFile(t, "listingsms.toml", content))
				assert.Error(t, err)
			})
		}
	})

	t.Run("UnknownBackendSentinel", func(t *testing.T) {
		_, err := Load(writeFile(t, "listingsms.toml", "[store]\nbackend = \"redis\""))
		assert.True(t, errors.Is(err, store.ErrUnknownBackend))
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("SetsUnsetVariables", func(t *testing.T) {
		t.Setenv(SmsUserEnv, "")
		require.NoError(t, os.Unsetenv(SmsUserEnv))
		t.Setenv(SmsPasswordEnv, "from-environment")

		path := writeFile(t, ".env", "SMS_USER=from-dotenv\nSMS_PASSWORD=from-dotenv\n")
		require.NoError(t, LoadEnv(path))

		assert.Equal(t, "from-dotenv", os.Getenv(SmsUserEnv))
		assert.Equal(t, "from-environment", os.Getenv(SmsPasswordEnv))
	})
}
