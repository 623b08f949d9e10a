package cmdutil

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/internal/config"
	"github.com/LegacyCodeHQ/bundlegraph/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagBinding maps a config key to the flag that overrides it.
type FlagBinding struct {
	Key  string
	Flag string
}

// GlobalBindings are the persistent root flags every command honours.
var GlobalBindings = []FlagBinding{
	{Key: config.KeyLogLevel, Flag: "log-level"},
	{Key: config.KeyLogFormat, Flag: "log-format"},
}

// LoadSettings binds the command's flags into v, resolves the configuration
// and builds a logger writing to the command's error stream. Bindings whose
// flag is not defined on cmd are skipped.
func LoadSettings(cmd *cobra.Command, v *viper.Viper, bindings ...FlagBinding) (*config.Config, zerolog.Logger, error) {
	for _, b := range append(append([]FlagBinding(nil), GlobalBindings...), bindings...) {
		flag := cmd.Flags().Lookup(b.Flag)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, flag); err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("failed to bind flag --%s: %w", b.Flag, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}
