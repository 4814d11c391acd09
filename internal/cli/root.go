// Package cli implements taigactl, the operator tool for the Taiga
// connectors.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sentry-taiga/internal/common/config"
	httpclient "sentry-taiga/internal/common/http"
	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/connector"
)

type rootFlags struct {
	ConfigPath string
	Verbose    bool
}

type app struct {
	flags rootFlags
	out   io.Writer
}

func Execute() error {
	return NewRootCmd(os.Stdout).Execute()
}

// NewRootCmd builds the command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "taigactl",
		Short:         "Inspect and exercise the Taiga issue and user story connectors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.flags.ConfigPath, "config", os.Getenv("TAIGACTL_CONFIG"), "Path to config.yaml (defaults to TAIGACTL_CONFIG, then ./configs)")
	rootCmd.PersistentFlags().BoolVarP(&a.flags.Verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(a.pluginsCmd())
	rootCmd.AddCommand(a.schemaCmd())
	rootCmd.AddCommand(a.createCmd())
	rootCmd.AddCommand(a.labelCmd())
	rootCmd.AddCommand(a.urlCmd())
	rootCmd.AddCommand(a.manifestCmd())

	return rootCmd
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.flags.ConfigPath != "" {
		return config.LoadFromFile(a.flags.ConfigPath)
	}
	return config.Load()
}

func (a *app) logger() logger.Logger {
	level := "warn"
	if a.flags.Verbose {
		level = "debug"
	}
	return logger.NewZapAdapter(logger.New(level, "console", "stderr"))
}

// registry builds the connectors with the configured Taiga transport.
func (a *app) registry(cfg *config.Config) *connector.Registry {
	timeout := 20 * time.Second
	userAgent := "sentry-taiga"
	if cfg != nil {
		if cfg.Taiga.HTTPTimeout > 0 {
			timeout = config.GetDuration(cfg.Taiga.HTTPTimeout)
		}
		if cfg.Taiga.UserAgent != "" {
			userAgent = cfg.Taiga.UserAgent
		}
	}
	hc := httpclient.NewClient(timeout, httpclient.WithUserAgent(userAgent))
	return connector.NewDefaultRegistry(connector.NewTaigaTrackerFactory(hc))
}

func lookup(reg *connector.Registry, slug string) (*connector.Connector, error) {
	c, ok := reg.Get(slug)
	if !ok {
		return nil, fmt.Errorf("unknown plugin %q", slug)
	}
	return c, nil
}
