package commands

import (
	"context"
	"io"

	"github.com/hashicorp/go-tfe"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/slok/tfe-notifier/internal/log"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug                  bool
	NoLog                  bool
	NoColor                bool
	LoggerType             string
	TFEToken               string
	TFEAddress             string
	TFETLSSkipVerify       bool
	NotificationHMACSecret string
	AutoApply              bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("tfe-token", "The Terraform cloud or enterprise API token.").StringVar(&c.TFEToken)
	app.Flag("tfe-address", "The address of the Terraform cloud or enterprise API.").Default(tfe.DefaultAddress).StringVar(&c.TFEAddress)
	app.Flag("tfe-tls-skip-verify", "Skip TLS certificate verification on TFE API calls (e.g self signed certs).").BoolVar(&c.TFETLSSkipVerify)
	app.Flag("notification-hmac-secret", "HMAC secret used to verify the signature header of received notifications, disables verification when unset.").StringVar(&c.NotificationHMACSecret)
	app.Flag("auto-apply", "Automatically apply created runs after a successful plan.").BoolVar(&c.AutoApply)

	return c
}
