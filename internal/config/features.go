package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FeatureSettings carries the model endpoints and prompts handed to the
// gated feature pages. They never come from the database.
type FeatureSettings struct {
	Speaking SpeakingSettings `mapstructure:"speaking"`
	Writing  WritingSettings  `mapstructure:"writing"`
}

type SpeakingSettings struct {
	Endpoint     string `mapstructure:"endpoint"`
	SttModel     string `mapstructure:"sttModel"`
	TextModel    string `mapstructure:"textModel"`
	SystemPrompt string `mapstructure:"systemPrompt"`
}

type WritingSettings struct {
	Endpoint     string `mapstructure:"endpoint"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"systemPrompt"`
}

func DefaultFeatureSettings() FeatureSettings {
	return FeatureSettings{
		Speaking: SpeakingSettings{
			Endpoint:     "https://oa.api2d.net",
			SttModel:     "whisper-1",
			TextModel:    "claude-3-5-sonnet-20240620",
			SystemPrompt: "You are a CELPIP speaking examiner. Score the response and suggest improvements.",
		},
		Writing: WritingSettings{
			Endpoint:     "https://oa.api2d.net",
			Model:        "claude-3-5-sonnet-20240620",
			SystemPrompt: "You are a CELPIP writing examiner. Improve the essay and explain the changes.",
		},
	}
}

// FeatureSettingsHolder holds the current settings and swaps them on reload.
type FeatureSettingsHolder struct {
	current atomic.Value // holds FeatureSettings
}

func NewFeatureSettingsHolder() (*FeatureSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("features")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/speaklab/config") // Volume-mounted config
	v.AddConfigPath("/etc/speaklab")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("SPEAKLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultFeatureSettings()
		v.SetDefault("features.speaking", defaults.Speaking)
		v.SetDefault("features.writing", defaults.Writing)
	}

	var cfg FeatureSettings
	if err := v.UnmarshalKey("features", &cfg); err != nil {
		return nil, err
	}
	cfg = withDefaults(cfg)
	if err := validateFeatureSettings(cfg); err != nil {
		return nil, err
	}

	holder := &FeatureSettingsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FeatureSettings
		if err := v.UnmarshalKey("features", &updated); err != nil {
			log.Printf("[feature-config] reload failed: %v", err)
			return
		}
		updated = withDefaults(updated)
		if err := validateFeatureSettings(updated); err != nil {
			log.Printf("[feature-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[feature-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticFeatureSettings returns a holder pinned to the given settings,
// with no config file watching.
func NewStaticFeatureSettings(cfg FeatureSettings) *FeatureSettingsHolder {
	holder := &FeatureSettingsHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *FeatureSettingsHolder) Get() FeatureSettings {
	return h.current.Load().(FeatureSettings)
}

func withDefaults(cfg FeatureSettings) FeatureSettings {
	defaults := DefaultFeatureSettings()
	if strings.TrimSpace(cfg.Speaking.Endpoint) == "" {
		cfg.Speaking = defaults.Speaking
	}
	if strings.TrimSpace(cfg.Writing.Endpoint) == "" {
		cfg.Writing = defaults.Writing
	}
	return cfg
}

func validateFeatureSettings(cfg FeatureSettings) error {
	if strings.TrimSpace(cfg.Speaking.SttModel) == "" {
		return errors.New("features.speaking.sttModel cannot be empty")
	}
	if strings.TrimSpace(cfg.Writing.Model) == "" {
		return errors.New("features.writing.model cannot be empty")
	}
	return nil
}
