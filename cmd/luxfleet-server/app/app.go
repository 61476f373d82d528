package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luxfleet-io/luxfleet/cmd/luxfleet-server/app/options"
	"github.com/luxfleet-io/luxfleet/pkg/log"
)

const (
	commandName = "luxfleet-server"
	commandDesc = `The Luxfleet server mimics the cloud API of a consumer
electric-vehicle fleet: it answers owner API queries, forwards commands to
per-vehicle simulators, and streams live telemetry over a WebSocket.`
)

// NewServerCommand builds the root command of the server binary.
func NewServerCommand() *cobra.Command {
	opts := options.NewServerOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:           commandName,
		Short:         "Launch the fake fleet cloud server",
		Long:          commandDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(configFile, opts); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if errs := opts.Validate(); len(errs) > 0 {
				return errors.Join(errs...)
			}
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to an optional configuration file.")
	opts.AddFlags(cmd.Flags())

	return cmd
}

// loadConfig applies an optional config file and LUXFLEET_* environment
// variables on top of the defaults. Keys present in the file override the
// corresponding flags.
func loadConfig(configFile string, opts *options.ServerOptions) error {
	v := viper.New()
	v.SetEnvPrefix("LUXFLEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info("Configuration file changed; restart to apply", "file", e.Name)
		})
		v.WatchConfig()
	}

	return v.Unmarshal(opts)
}

func run(opts *options.ServerOptions) error {
	log.Init(opts.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	server, err := cfg.NewServer()
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return server.Run(ctx)
}
