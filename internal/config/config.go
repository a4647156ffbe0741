// Package config resolves runtime settings from defaults, SUPERGEMINI_*
// environment variables and command-line flags, in increasing priority.
// There is no configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. SUPERGEMINI_PACKAGE.
	EnvPrefix = "SUPERGEMINI_"

	DefaultPackage      = "SuperGemini"
	DefaultProbeTimeout = 10 * time.Second
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Package         string        `koanf:"package"`
	Interpreters    []string      `koanf:"interpreters"`
	PackageManagers []string      `koanf:"package_managers"`
	ProbeTimeout    time.Duration `koanf:"probe_timeout"`
	LogDir          string        `koanf:"log_dir"`
	Verbose         bool          `koanf:"verbose"`
}

// DefaultInterpreters returns the interpreter candidates for the host OS.
func DefaultInterpreters() []string {
	if runtime.GOOS == "windows" {
		return []string{"python3", "python", "py -3"}
	}
	return []string{"python3", "python"}
}

// DefaultLogDir is <user cache dir>/supergemini/logs, or a temp dir when the
// cache dir is unknown.
func DefaultLogDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "supergemini", "logs")
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"package":          DefaultPackage,
		"interpreters":     DefaultInterpreters(),
		"package_managers": []string{"pip3", "pip"},
		"probe_timeout":    DefaultProbeTimeout,
		"log_dir":          DefaultLogDir(),
		"verbose":          false,
	}
}

// Load resolves settings. flags may be nil; only flags the user set
// explicitly override lower layers.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Environment: SUPERGEMINI_PROBE_TIMEOUT -> probe_timeout
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 3. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, unmarshalConf(&s)); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	s.Interpreters = compact(s.Interpreters)
	s.PackageManagers = compact(s.PackageManagers)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// unmarshalConf decodes comma-separated env values such as
// SUPERGEMINI_INTERPRETERS="python3.12,python3" into candidate lists.
func unmarshalConf(out *Settings) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	}
}

// Validate rejects settings no flow could run with.
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Package) == "" {
		errs = append(errs, errors.New("package name is empty"))
	}
	if len(s.Interpreters) == 0 {
		errs = append(errs, errors.New("no interpreter candidates configured"))
	}
	if len(s.PackageManagers) == 0 {
		errs = append(errs, errors.New("no package manager candidates configured"))
	}
	if s.ProbeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", s.ProbeTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
