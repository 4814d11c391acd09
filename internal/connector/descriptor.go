package connector

// Version of the connector plugins.
const Version = "1.0.0"

// FieldType is how the host renders a configuration field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldPassword FieldType = "password"
	FieldURL      FieldType = "url"
)

// Field describes one per-project configuration input.
type Field struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"helpText,omitempty"`
	Initial     string    `json:"initial,omitempty"`
}

type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Descriptor is the static metadata the host shows for a plugin.
type Descriptor struct {
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	ConfTitle     string         `json:"confTitle"`
	ConfKey       string         `json:"confKey"`
	Kind          Kind           `json:"kind"`
	Description   string         `json:"description"`
	Author        string         `json:"author"`
	AuthorURL     string         `json:"authorUrl"`
	Version       string         `json:"version"`
	ResourceLinks []ResourceLink `json:"resourceLinks"`
	NewItemTitle  string         `json:"newItemTitle"`
	ConfigSchema  []Field        `json:"configSchema"`
}

var resourceLinks = []ResourceLink{
	{Title: "Bug Tracker", URL: "https://github.com/getsentry/sentry-taiga/issues"},
	{Title: "Source", URL: "https://github.com/getsentry/sentry-taiga"},
}

func describe(kind Kind) Descriptor {
	d := Descriptor{
		Kind:          kind,
		Author:        "Sentry",
		AuthorURL:     "http://sentry.io/",
		Version:       Version,
		ResourceLinks: resourceLinks,
		ConfigSchema:  ConfigSchema(kind),
	}
	switch kind {
	case KindUserStory:
		d.Slug = "taiga-userstory"
		d.Title = "Taiga User Stories"
		d.ConfKey = "taiga-userstory"
		d.Description = "Integrate Taiga user stories by linking a repository to a project"
		d.NewItemTitle = "Create Taiga User Story"
	default:
		d.Slug = "taiga"
		d.Title = "Taiga"
		d.ConfKey = "taiga"
		d.Description = "Integrate Taiga issues by linking a repository to a project"
		d.NewItemTitle = "Create Taiga Issue"
	}
	d.ConfTitle = d.Title
	return d
}

// ConfigSchema returns the project configuration form for kind.
func ConfigSchema(kind Kind) []Field {
	return []Field{
		{
			Key:         OptionServiceURL,
			Label:       "Taiga URL",
			Type:        FieldURL,
			Required:    true,
			Placeholder: "e.g. https://tree.taiga.io",
			HelpText:    "Enter the URL for your Taiga server",
			Initial:     "https://tree.taiga.io",
		},
		{
			// Optional: blank means the API is served from the Taiga URL.
			Key:         OptionAPIURL,
			Label:       "Taiga API",
			Type:        FieldURL,
			Placeholder: "e.g. https://api.taiga.io",
			HelpText:    "Enter the Taiga API URL",
			Initial:     "https://api.taiga.io",
		},
		{
			Key:         OptionUsername,
			Label:       "Taiga User Name",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g. user@example.com",
			HelpText:    "Enter your Taiga User name",
		},
		{
			Key:         OptionPassword,
			Label:       "Taiga Password",
			Type:        FieldPassword,
			Required:    true,
			Placeholder: "e.g. your password",
			HelpText:    "Enter your Taiga User password",
		},
		{
			Key:         OptionProjectSlug,
			Label:       "Taiga Project Slug",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g. project-slug",
			HelpText:    "Enter your project slug.",
		},
		{
			Key:         OptionLabels,
			Label:       labelsFieldLabel(kind),
			Type:        FieldText,
			Placeholder: "e.g. high, bug",
			HelpText:    labelsHelpText(kind),
		},
	}
}

func labelsFieldLabel(kind Kind) string {
	if kind == KindUserStory {
		return "User Story Labels"
	}
	return "Issue Labels"
}

func labelsHelpText(kind Kind) string {
	if kind == KindUserStory {
		return "Enter comma separated labels you want to auto assign to user stories."
	}
	return "Enter comma separated labels you want to auto assign to issues."
}
