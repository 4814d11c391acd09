package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sentry-taiga/internal/connector"
)

type targetFlags struct {
	ServiceURL  string
	APIURL      string
	Username    string
	Password    string
	ProjectSlug string
	Labels      string
}

func (f *targetFlags) bind(cmd *cobra.Command, withCredentials bool) {
	cmd.Flags().StringVar(&f.ServiceURL, "service-url", "", "Taiga web URL (defaults to taiga.default_service_url)")
	cmd.Flags().StringVar(&f.ProjectSlug, "project-slug", "", "Taiga project slug")
	if !withCredentials {
		return
	}
	cmd.Flags().StringVar(&f.APIURL, "api-url", "", "Taiga API URL (defaults to --service-url)")
	cmd.Flags().StringVar(&f.Username, "username", "", "Taiga user name (defaults to TAIGA_USERNAME)")
	cmd.Flags().StringVar(&f.Password, "password", "", "Taiga password (defaults to TAIGA_PASSWORD)")
	cmd.Flags().StringVar(&f.Labels, "labels", "", "Comma separated tags")
}

func (f targetFlags) connectorConfig() connector.ConnectorConfig {
	if f.Username == "" {
		f.Username = os.Getenv("TAIGA_USERNAME")
	}
	if f.Password == "" {
		f.Password = os.Getenv("TAIGA_PASSWORD")
	}
	return connector.ConnectorConfig{
		ServiceURL:  f.ServiceURL,
		APIURL:      f.APIURL,
		Username:    f.Username,
		Password:    f.Password,
		ProjectSlug: f.ProjectSlug,
		Labels:      f.Labels,
	}
}

func (a *app) createCmd() *cobra.Command {
	var (
		target      targetFlags
		title       string
		description string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a Taiga issue or user story with the given settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			// The default API host only pairs with the default service URL.
			if target.ServiceURL == "" {
				target.ServiceURL = cfg.Taiga.DefaultServiceURL
				if target.APIURL == "" {
					target.APIURL = cfg.Taiga.DefaultAPIURL
				}
			}

			c, err := lookup(a.registry(cfg), args[0])
			if err != nil {
				return err
			}

			log := a.logger()
			connCfg := target.connectorConfig()
			log.Debug("Creating Taiga item", map[string]interface{}{
				"plugin": args[0],
				"config": connCfg.String(),
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ref, err := c.CreateItem(ctx, connCfg, connector.FormInput{Title: title, Description: description})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", c.FormatItemLabel(ref), c.BuildItemURL(connCfg, ref))
			return nil
		},
	}

	target.bind(cmd, true)
	cmd.Flags().StringVar(&title, "title", "", "Item subject")
	cmd.Flags().StringVar(&description, "description", "", "Item description")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall deadline for the Taiga calls")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) labelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <ref>",
		Short: "Print the display label for a Taiga ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, connector.FormatItemLabel(ref))
			return nil
		},
	}
}

func (a *app) urlCmd() *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "url <slug> <ref>",
		Short: "Print the Taiga web URL of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := lookup(a.registry(nil), args[0])
			if err != nil {
				return err
			}
			ref, err := parseRef(args[1])
			if err != nil {
				return err
			}
			if target.ServiceURL == "" {
				return fmt.Errorf("missing --service-url")
			}
			fmt.Fprintln(a.out, c.BuildItemURL(target.connectorConfig(), ref))
			return nil
		},
	}
	target.bind(cmd, false)
	_ = cmd.MarkFlagRequired("project-slug")
	return cmd
}

func parseRef(s string) (connector.ItemRef, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("ref must be a positive integer, got %q", s)
	}
	return connector.ItemRef(n), nil
}
