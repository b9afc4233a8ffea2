/*
Package cfg implements listingsms configuration file parser
*/
package cfg

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"github.com/posipaka-trade/listingsms/internal/announcement"
	"github.com/posipaka-trade/listingsms/internal/log"
	"github.com/posipaka-trade/listingsms/internal/notifier"
	"github.com/posipaka-trade/listingsms/internal/store"
)

const (
	DefaultPath    = "./configs/listingsms.toml"
	DefaultEnvPath = ".env"

	SmsUserEnv     = "SMS_USER"
	SmsPasswordEnv = "SMS_PASSWORD"
)

const (
	defaultPageUrl   = "https://www.binance.com/fr/support/announcement/new-cryptocurrency-listing?c=48&navId=48"
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
)

type Store struct {
	Backend string
	Path    string
}

type Sms struct {
	GatewayUrl string
	// MarkUndelivered marks skipped and failed notifications as sent.
	MarkUndelivered bool
	Credentials     notifier.Credentials
}

type Config struct {
	Interval    time.Duration
	PageUrl     string
	UserAgent   string
	HttpTimeout time.Duration
	Rule        announcement.Rule
	Store       Store
	Sms         Sms
	Log         log.Options
	MetricsAddr string
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Interval:    30 * time.Minute,
		PageUrl:     defaultPageUrl,
		UserAgent:   defaultUserAgent,
		HttpTimeout: 30 * time.Second,
		Rule:        announcement.DefaultRule,
		Store: Store{
			Backend: store.JsonBackend,
			Path:    "sent_items.json",
		},
		Sms: Sms{
			GatewayUrl:      notifier.DefaultGatewayUrl,
			MarkUndelivered: true,
		},
		Log: log.Options{Level: "info"},
	}
}

// LoadEnv loads variables from a .env file into the process environment.
// A missing file is not an error; already set variables are kept.
func LoadEnv(envPath string) error {
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return errors.New("[cfg] Env file (" + envPath + ") loading error " + err.Error())
	}
	return nil
}

// Load reads the configuration file at cfgPath on top of Default and takes
// the SMS credentials from the environment. A missing file yields the defaults.
func Load(cfgPath string) (Config, error) {
	config := Default()

	if _, err := os.Stat(cfgPath); err == nil {
		tml, err := toml.LoadFile(cfgPath)
		if err != nil {
			return Config{}, errors.New("[cfg] Config file (" + cfgPath + ") loading error " + err.Error())
		}
		if err = apply(tml, &config); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.New("[cfg] Config file (" + cfgPath + ") access error " + err.Error())
	}

	config.Sms.Credentials = notifier.Credentials{
		User:     os.Getenv(SmsUserEnv),
		Password: os.Getenv(SmsPasswordEnv),
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func apply(tml *toml.Tree, config *Config) error {
	var err error
	set := func(parse func() error) {
		if err == nil {
			err = parse()
		}
	}

	set(func() error { return durationValue(tml, "interval", &config.Interval) })
	set(func() error { return durationValue(tml, "http_timeout", &config.HttpTimeout) })
	set(func() error { return stringValue(tml, "page_url", &config.PageUrl) })
	set(func() error { return stringValue(tml, "user_agent", &config.UserAgent) })

	set(func() error { return stringValue(tml, "rule.version", &config.Rule.Version) })
	set(func() error { return stringValue(tml, "rule.origin", &config.Rule.Origin) })
	set(func() error { return stringValue(tml, "rule.link_contains", &config.Rule.LinkContains) })
	set(func() error { return stringValue(tml, "rule.title_contains", &config.Rule.TitleContains) })
	set(func() error { return stringValue(tml, "rule.date_selector", &config.Rule.DateSelector) })
	set(func() error { return stringValue(tml, "rule.date_layout", &config.Rule.DateLayout) })

	set(func() error { return stringValue(tml, "store.backend", &config.Store.Backend) })
	set(func() error { return stringValue(tml, "store.path", &config.Store.Path) })

	set(func() error { return stringValue(tml, "sms.gateway_url", &config.Sms.GatewayUrl) })
	set(func() error { return boolValue(tml, "sms.mark_undelivered", &config.Sms.MarkUndelivered) })

	set(func() error { return stringValue(tml, "log.level", &config.Log.Level) })
	set(func() error { return stringValue(tml, "log.file", &config.Log.File) })
	set(func() error { return intValue(tml, "log.max_size_mb", &config.Log.MaxSizeMB) })
	set(func() error { return intValue(tml, "log.max_backups", &config.Log.MaxBackups) })
	set(func() error { return intValue(tml, "log.max_age_days", &config.Log.MaxAgeDays) })

	set(func() error { return stringValue(tml, "metrics.addr", &config.MetricsAddr) })
	return err
}

func (config Config) validate() error {
	if config.Interval <= 0 {
		return errors.New("[cfg] Interval(`interval`) must be positive")
	}
	if config.PageUrl == "" {
		return errors.New("[cfg] Page url(`page_url`) not specified")
	}
	if config.Store.Path == "" {
		return errors.New("[cfg] Store path(`store.path`) not specified")
	}
	if config.Store.Backend != store.JsonBackend && config.Store.Backend != store.BadgerBackend {
		return fmt.Errorf("[cfg] Store backend(`store.backend`): %w: %q", store.ErrUnknownBackend, config.Store.Backend)
	}
	if err := config.Rule.Validate(); err != nil {
		return errors.New("[cfg] " + err.Error())
	}
	return nil
}

func stringValue(tml *toml.Tree, key string, target *string) error {
	value := tml.Get(key)
	if value == nil {
		return nil
	}

	str, isOkay := value.(string)
	if !isOkay {
		return errors.New("[cfg] `" + key + "` must be a string")
	}
	*target = str
	return nil
}

func durationValue(tml *toml.Tree, key string, target *time.Duration) error {
	var str string
	if err := stringValue(tml, key, &str); err != nil || str == "" {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return errors.New("[cfg] `" + key + "` is not a duration: " + err.Error())
	}
	*target = duration
	return nil
}

func boolValue(tml *toml.Tree, key string, target *bool) error {
	value := tml.Get(key)
	if value == nil {
		return nil
	}

	b, isOkay := value.(bool)
	if !isOkay {
		return errors.New("[cfg] `" + key + "` must be a boolean")
	}
	*target = b
	return nil
}

func intValue(tml *toml.Tree, key string, target *int) error {
	value := tml.Get(key)
	if value == nil {
		return nil
	}

	i, isOkay := value.(int64)
	if !isOkay {
		return errors.New("[cfg] `" + key + "` must be an integer")
	}
	*target = int(i)
	return nil
}
