// Package app implements the luxfleet-client CLI: a small driver for the
// fleet cloud used for poking a running server by hand.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/client"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/options"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

// NewClientCommand builds the root command of the client binary.
func NewClientCommand() *cobra.Command {
	logOpts := log.NewOptions()

	cmd := &cobra.Command{
		Use:           "luxfleet-client",
		Short:         "Drive a running luxfleet server",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(logOpts)
		},
	}
	logOpts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newTokenCommand(),
		newVehiclesCommand(),
		newWakeCommand(),
		newSimulateCommand(),
		newStreamCommand(),
	)

	return cmd
}

func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newClient() (*client.Client, error) {
	return client.New(client.ConfigFromEnv())
}

// newTokenCommand mints an all-scope token pair locally with the shared
// secret, for exporting into the TESLA_* environment.
func newTokenCommand() *cobra.Command {
	tokenOpts := options.NewTokenOptions()

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an all-scope token pair with the shared secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.NewService(tokenOpts).Mint(auth.AllScopes())
			if err != nil {
				return err
			}
			fmt.Printf("export %s=%s\n", client.EnvAccessToken, token.AccessToken)
			fmt.Printf("export %s=%s\n", client.EnvRefreshToken, token.RefreshToken)
			return nil
		},
	}
	tokenOpts.AddFlags(cmd.Flags())

	return cmd
}

func newVehiclesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vehicles",
		Short: "List the fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			c, err := newClient()
			if err != nil {
				return err
			}
			vehicles, err := c.Vehicles(ctx)
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "GUID", "VIN", "NAME", "STATE")
			for _, v := range vehicles {
				table.AddRow(v.ID, v.VehicleID, v.VIN, v.DisplayName, string(v.State))
			}
			fmt.Fprintln(os.Stdout, table)
			return nil
		},
	}
}

func newWakeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wake <vehicle-id>",
		Short: "Wake a vehicle up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			id, err := fleetv1.ParseVehicleId(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			desc, err := c.WakeUp(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("%s is %s\n", desc.DisplayName, desc.State)
			return nil
		},
	}
}

func newSimulateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <vehicle-id> <driving|charging|idle|idle_no_sleep|sleeping>",
		Short: "Force a vehicle into a simulation state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			id, err := fleetv1.ParseVehicleId(args[0])
			if err != nil {
				return err
			}
			state, err := fleetv1.ParseSimulationState(args[1])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			return c.Simulate(ctx, id, state)
		},
	}
}

func newStreamCommand() *cobra.Command {
	var fieldList string

	cmd := &cobra.Command{
		Use:   "stream <vehicle-guid>",
		Short: "Subscribe to a vehicle's telemetry and print samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			guid, err := fleetv1.ParseVehicleGuid(args[0])
			if err != nil {
				return err
			}
			fields := streaming.ParseFields(fieldList)

			c, err := newClient()
			if err != nil {
				return err
			}
			return c.Stream(ctx, guid, fields, func(sample *streaming.Sample) bool {
				fmt.Printf("%d %s\n", sample.Time, streaming.Encode(fields, sample))
				return true
			})
		},
	}
	cmd.Flags().StringVar(&fieldList, "fields", streaming.JoinFields(streaming.AllFields),
		"Comma-separated field list to subscribe with.")

	return cmd
}
