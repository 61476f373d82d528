package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*TokenOptions)(nil)

// TokenOptions contains configuration for the bearer-token service.
type TokenOptions struct {
	// Secret is the shared HS256 signing secret. Every token minted or
	// validated by the process uses this value.
	Secret string `json:"secret" mapstructure:"secret"`

	// Expiry is how long a freshly minted token pair stays valid.
	Expiry time.Duration `json:"expiry" mapstructure:"expiry"`
}

// NewTokenOptions creates a new TokenOptions with default values.
func NewTokenOptions() *TokenOptions {
	return &TokenOptions{
		Secret: "mom-said-yes",
		Expiry: 10 * time.Minute,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *TokenOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}

	if o.Secret == "" {
		errs = append(errs, errors.New("token secret must not be empty"))
	}
	if o.Expiry <= 0 {
		errs = append(errs, errors.New("token expiry must be positive"))
	}

	return errs
}

// AddFlags adds flags for TokenOptions to the specified FlagSet.
func (o *TokenOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Secret, "token.secret", o.Secret, "The shared secret used to sign access and refresh tokens.")
	fs.DurationVar(&o.Expiry, "token.expiry", o.Expiry, "Lifetime of newly minted tokens.")
}
