package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/jobb/internal/agent"
	"github.com/mesh-intelligence/jobb/internal/api"
	"github.com/mesh-intelligence/jobb/internal/paths"
	"github.com/mesh-intelligence/jobb/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "JOBB"
)

// Config keys.
const (
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyPostgresDSN = "postgres_dsn"
	cfgKeyListen      = "listen"
	cfgKeyBrand       = "brand"
	cfgKeyStrict      = "handleliste.strict_transitions"
	cfgKeyDebug       = "log.debug"
	cfgKeyPDFRoot     = "pdf.root"
	cfgKeyMaxUpload   = "pdf.max_upload_bytes"
	cfgKeyWatchDelay  = "watch.delay"
	cfgKeyChatDelay   = "chat.delay"
)

// envKeys lists the keys that JOBB_* variables may override. data_dir is
// absent because JOBB_DATA_DIR ranks below config.yaml.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyPostgresDSN,
	cfgKeyListen,
	cfgKeyBrand,
	cfgKeyStrict,
	cfgKeyDebug,
	cfgKeyPDFRoot,
	cfgKeyMaxUpload,
	cfgKeyWatchDelay,
	cfgKeyChatDelay,
}

// settings is the resolved configuration shared by all subcommands.
type settings struct {
	ConfigDir         string
	DataDir           string
	Backend           string
	PostgresDSN       string
	Listen            string
	Brand             string
	StrictTransitions bool
	Debug             bool
	PDFRoot           string
	MaxUploadBytes    int64
	WatchDelay        time.Duration
	ChatDelay         time.Duration
}

// registryConfig returns the backend selection for the fittings registry.
func (s settings) registryConfig() types.Config {
	return types.Config{
		Backend:     s.Backend,
		DataDir:     s.DataDir,
		PostgresDSN: s.PostgresDSN,
	}
}

// configFile is the structure init writes to config.yaml.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
	Listen      string `yaml:"listen"`
	Brand       string `yaml:"brand"`
	Handleliste struct {
		StrictTransitions bool `yaml:"strict_transitions"`
	} `yaml:"handleliste"`
	Log struct {
		Debug bool `yaml:"debug"`
	} `yaml:"log"`
	PDF struct {
		Root           string `yaml:"root,omitempty"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	} `yaml:"pdf"`
	Watch struct {
		Delay string `yaml:"delay"`
	} `yaml:"watch"`
	Chat struct {
		Delay string `yaml:"delay"`
	} `yaml:"chat"`
}

// defaultConfigFile returns the config written by init.
func defaultConfigFile(backend, dataDir string) configFile {
	var cfg configFile
	cfg.Backend = backend
	cfg.DataDir = dataDir
	cfg.Listen = api.DefaultListen
	cfg.Brand = string(types.DefaultBrand)
	cfg.PDF.MaxUploadBytes = api.DefaultMaxUploadBytes
	cfg.Watch.Delay = agent.DefaultDelay.String()
	cfg.Chat.Delay = agent.DefaultDelay.String()
	return cfg
}

// newViper returns a viper instance with defaults and env bindings but no
// config file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendMemory)
	v.SetDefault(cfgKeyListen, api.DefaultListen)
	v.SetDefault(cfgKeyBrand, string(types.DefaultBrand))
	v.SetDefault(cfgKeyStrict, false)
	v.SetDefault(cfgKeyDebug, false)
	v.SetDefault(cfgKeyMaxUpload, api.DefaultMaxUploadBytes)
	v.SetDefault(cfgKeyWatchDelay, agent.DefaultDelay)
	v.SetDefault(cfgKeyChatDelay, agent.DefaultDelay)

	for _, key := range envKeys {
		_ = v.BindEnv(key, envName(key))
	}
	return v
}

// envName maps a config key to its override variable, e.g. pdf.root to
// JOBB_PDF_ROOT.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// loadConfig reads config.yaml from configDir using Viper.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := newViper()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveSettings loads the config and applies the directory precedence
// rules to the root flags.
func resolveSettings(f rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}
	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	return settings{
		ConfigDir:         configDir,
		DataDir:           dataDir,
		Backend:           v.GetString(cfgKeyBackend),
		PostgresDSN:       v.GetString(cfgKeyPostgresDSN),
		Listen:            v.GetString(cfgKeyListen),
		Brand:             v.GetString(cfgKeyBrand),
		StrictTransitions: v.GetBool(cfgKeyStrict),
		Debug:             v.GetBool(cfgKeyDebug),
		PDFRoot:           v.GetString(cfgKeyPDFRoot),
		MaxUploadBytes:    v.GetInt64(cfgKeyMaxUpload),
		WatchDelay:        v.GetDuration(cfgKeyWatchDelay),
		ChatDelay:         v.GetDuration(cfgKeyChatDelay),
	}, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
