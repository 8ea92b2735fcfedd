package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teamgen/config"
)

// defaultConfigPath is read when --config is not given and the file exists.
const defaultConfigPath = "config.yaml"

// NewRootCmd builds the teamgen command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "teamgen",
		Short:        "Split a rated roster into two balanced teams",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	load := func() (*config.Config, error) { return loadConfig(cfgPath) }
	root.AddCommand(
		newServeCmd(load),
		newGenerateCmd(load),
		newRosterCmd(load),
		newHistoryCmd(load),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

type configLoader func() (*config.Config, error)

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
