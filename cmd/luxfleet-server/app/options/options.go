package options

import (
	"github.com/spf13/pflag"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/options"
)

// ServerOptions collects every option group of the server binary.
type ServerOptions struct {
	HttpOptions  *options.HttpOptions  `json:"http" mapstructure:"http"`
	TokenOptions *options.TokenOptions `json:"token" mapstructure:"token"`
	MqttOptions  *options.MqttOptions  `json:"mqtt" mapstructure:"mqtt"`
	Log          *log.Options          `json:"log" mapstructure:"log"`
}

// NewServerOptions creates a ServerOptions with defaults.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HttpOptions:  options.NewHttpOptions(),
		TokenOptions: options.NewTokenOptions(),
		MqttOptions:  options.NewMqttOptions(),
		Log:          log.NewOptions(),
	}
}

// AddFlags binds every option group to the flag set.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs)
	o.TokenOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

// Validate aggregates validation across all option groups.
func (o *ServerOptions) Validate() []error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.TokenOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errs
}

// Config converts the options into the server configuration.
func (o *ServerOptions) Config() (*fleetserver.Config, error) {
	return &fleetserver.Config{
		HttpOptions:  o.HttpOptions,
		TokenOptions: o.TokenOptions,
		MqttOptions:  o.MqttOptions,
	}, nil
}
