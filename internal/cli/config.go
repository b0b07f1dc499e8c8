package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/floaty/internal/paths"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "FLOATY"

	// Config keys.
	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log_level"
	cfgKeyShellPreview = "shell.preview"
	cfgKeyShellWatch   = "shell.watch"
	cfgKeyServeAddr    = "serve.addr"
)

// Defaults applied before config.yaml and the environment.
const (
	defaultLogLevel     = types.LogLevelWarn
	defaultShellPreview = 5
	defaultShellWatch   = true
	defaultServeAddr    = "127.0.0.1:7423"
)

// defaultConfigYAML is the content floaty init writes to config.yaml.
const defaultConfigYAML = `# floaty configuration

# Data directory holding notes.jsonl (optional; overridable by --data-dir)
# data_dir:

# debug, info, warn, error
log_level: warn

shell:
  # Notes shown by the shell's list command
  preview: 5
  # Reload when notes.jsonl changes outside the shell
  watch: true

serve:
  # Loopback address for the desktop bindings
  addr: 127.0.0.1:7423
`

// loadConfig resolves directories and reads config.yaml with Viper.
// Values come from, in order of precedence: flags, FLOATY_* environment
// variables (including .env and .env.local in the working directory),
// config.yaml, and built-in defaults. data_dir is the exception: see
// paths.ResolveDataDir. A missing config.yaml is not an error
// and is not created here; floaty init writes it.
func loadConfig(flags rootFlags, cmd *cobra.Command) (types.AppConfig, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.AppConfig{}, fmt.Errorf("resolve config dir: %w", err)
	}

	// The file is read on its own so that data_dir from config.yaml can be
	// ranked above FLOATY_DATA_DIR by paths.ResolveDataDir.
	file := viper.New()
	file.SetConfigName(configFileName)
	file.SetConfigType(configFileType)
	file.AddConfigPath(configDir)
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyShellPreview, defaultShellPreview)
	v.SetDefault(cfgKeyShellWatch, defaultShellWatch)
	v.SetDefault(cfgKeyServeAddr, defaultServeAddr)
	if err := v.MergeConfigMap(file.AllSettings()); err != nil {
		return types.AppConfig{}, fmt.Errorf("merge config: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("log-level"); f != nil {
		if err := v.BindPFlag(cfgKeyLogLevel, f); err != nil {
			return types.AppConfig{}, fmt.Errorf("bind flag: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, file.GetString(cfgKeyDataDir))
	if err != nil {
		return types.AppConfig{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.AppConfig{
		ConfigDir:    configDir,
		DataDir:      dataDir,
		LogLevel:     strings.ToLower(v.GetString(cfgKeyLogLevel)),
		ShellPreview: v.GetInt(cfgKeyShellPreview),
		ShellWatch:   v.GetBool(cfgKeyShellWatch),
		ServeAddr:    v.GetString(cfgKeyServeAddr),
	}
	if err := cfg.Validate(); err != nil {
		return types.AppConfig{}, err
	}
	return cfg, nil
}
