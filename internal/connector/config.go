package connector

import (
	"fmt"
	"strings"
)

// Option keys as stored by the host, per plugin and project.
const (
	OptionServiceURL  = "serviceUrl"
	OptionAPIURL      = "apiUrl"
	OptionUsername    = "username"
	OptionPassword    = "password"
	OptionProjectSlug = "projectSlug"
	OptionLabels      = "labels"
)

// ConnectorConfig is the per-project configuration. It is read fresh from
// the host for every call and never cached.
type ConnectorConfig struct {
	ServiceURL  string
	APIURL      string
	Username    string
	Password    string
	ProjectSlug string
	Labels      string
}

// ConfigFromOptions maps a host option set onto a ConnectorConfig. Missing
// keys stay empty.
func ConfigFromOptions(opts map[string]string) ConnectorConfig {
	return ConnectorConfig{
		ServiceURL:  opts[OptionServiceURL],
		APIURL:      opts[OptionAPIURL],
		Username:    opts[OptionUsername],
		Password:    opts[OptionPassword],
		ProjectSlug: opts[OptionProjectSlug],
		Labels:      opts[OptionLabels],
	}
}

// EffectiveAPIURL is the API host to call. It falls back to ServiceURL for
// self-hosted installs serving both from one origin.
func (c ConnectorConfig) EffectiveAPIURL() string {
	if api := strings.TrimSpace(c.APIURL); api != "" {
		return api
	}
	return strings.TrimSpace(c.ServiceURL)
}

// MissingFields lists the option keys of required settings that are blank.
func (c ConnectorConfig) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.ServiceURL) == "" {
		missing = append(missing, OptionServiceURL)
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, OptionUsername)
	}
	if c.Password == "" {
		missing = append(missing, OptionPassword)
	}
	if strings.TrimSpace(c.ProjectSlug) == "" {
		missing = append(missing, OptionProjectSlug)
	}
	return missing
}

// Validate returns an error naming every missing required setting.
func (c ConnectorConfig) Validate() error {
	if missing := c.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// String masks the password so configs are safe to log.
func (c ConnectorConfig) String() string {
	password := ""
	if c.Password != "" {
		password = "****"
	}
	return fmt.Sprintf("ConnectorConfig{ServiceURL:%q APIURL:%q Username:%q Password:%q ProjectSlug:%q Labels:%q}",
		c.ServiceURL, c.APIURL, c.Username, password, c.ProjectSlug, c.Labels)
}
