package config

import (
	"strings"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Setting keys, shared by the config file, CHARMGLOB_* env variables and CLI flags.
const (
	KeyExtended        = "extended"
	KeyGlobstar        = "globstar"
	KeyCaseInsensitive = "case-insensitive"
	KeyPlatform        = "platform"
	KeyIncludeHidden   = "include-hidden"
	KeyMaxDepth        = "max-depth"
	KeyIgnoreFile      = "ignore-file"
	KeyIgnoreEncoding  = "ignore-encoding"
	KeyLogLevel        = "log-level"
)

// Settings wraps a viper instance holding the non-secret settings.
type Settings struct {
	v *viper.Viper
}

// NewSettings returns settings with defaults and env binding applied. When
// configFile is empty, charmglob.yaml is looked up in the working directory
// and the user config directory; a missing file is fine.
func NewSettings(v *viper.Viper, configFile string) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := glob.DefaultOptions()
	v.SetDefault(KeyExtended, defaults.Extended)
	v.SetDefault(KeyGlobstar, defaults.Globstar)
	v.SetDefault(KeyCaseInsensitive, defaults.CaseInsensitive)
	v.SetDefault(KeyPlatform, "host")
	v.SetDefault(KeyIncludeHidden, false)
	v.SetDefault(KeyMaxDepth, 0)
	v.SetDefault(KeyIgnoreFile, "")
	v.SetDefault(KeyIgnoreEncoding, "UTF-8")
	v.SetDefault(KeyLogLevel, "warn")

	v.SetEnvPrefix(constants.ServiceName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.ServiceName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + constants.ServiceName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	} else {
		log.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return &Settings{v: v}, nil
}

// Viper exposes the underlying instance, for flag binding.
func (s *Settings) Viper() *viper.Viper { return s.v }

// GlobOptions converts the settings into compiler options.
func (s *Settings) GlobOptions() (glob.Options, error) {
	platform, ok := glob.ParsePlatform(s.v.GetString(KeyPlatform))
	if !ok {
		return glob.Options{}, errors.Errorf("unknown platform %q, want host, posix or windows", s.v.GetString(KeyPlatform))
	}
	return glob.Options{
		Extended:        s.v.GetBool(KeyExtended),
		Globstar:        s.v.GetBool(KeyGlobstar),
		CaseInsensitive: s.v.GetBool(KeyCaseInsensitive),
		Platform:        platform,
	}, nil
}

// PathGlobOptions converts the settings into options for Path.Glob. The
// ignore file is not read here; see Path.ReadPatterns.
func (s *Settings) PathGlobOptions() (pathmodels.GlobOptions, error) {
	options, err := s.GlobOptions()
	if err != nil {
		return pathmodels.GlobOptions{}, err
	}
	maxDepth := s.v.GetInt(KeyMaxDepth)
	if maxDepth < 0 {
		return pathmodels.GlobOptions{}, errors.Errorf("max-depth must not be negative, got %d", maxDepth)
	}
	return pathmodels.GlobOptions{
		Options:       options,
		IncludeHidden: s.v.GetBool(KeyIncludeHidden),
		MaxDepth:      maxDepth,
	}, nil
}

func (s *Settings) IgnoreFile() string     { return s.v.GetString(KeyIgnoreFile) }
func (s *Settings) IgnoreEncoding() string { return s.v.GetString(KeyIgnoreEncoding) }

// LogLevel parses the log-level setting.
func (s *Settings) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(s.v.GetString(KeyLogLevel))
	if err != nil {
		return log.WarnLevel, errors.Wrap(err, "log-level")
	}
	return level, nil
}
