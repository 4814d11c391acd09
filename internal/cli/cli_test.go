package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentry-taiga/internal/common/taiga"
	"sentry-taiga/internal/common/taiga/taigatest"
	"sentry-taiga/internal/connector"
	"sentry-taiga/pkg/registry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: taigactl-test
taiga:
  http_timeout: 5000
  user_agent: taigactl-test
options:
  backend: memory
`), 0o644))
	return path
}

func TestPluginsCommand(t *testing.T) {
	out, err := run(t, "plugins")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SLUG")
	assert.Contains(t, lines[1], "taiga ")
	assert.Contains(t, lines[2], "taiga-userstory")
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema", "taiga-userstory")
	require.NoError(t, err)

	var fields []connector.Field
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	require.NotEmpty(t, fields)
	assert.Equal(t, connector.OptionServiceURL, fields[0].Key)

	_, err = run(t, "schema", "jira")
	assert.ErrorContains(t, err, `unknown plugin "jira"`)
}

func TestLabelCommand(t *testing.T) {
	out, err := run(t, "label", "42")
	require.NoError(t, err)
	assert.Equal(t, "TG-42\n", out)

	_, err = run(t, "label", "-3")
	assert.Error(t, err)
}

func TestURLCommand(t *testing.T) {
	out, err := run(t, "url", "taiga-userstory", "9", "--service-url", "https://taiga.example.com/", "--project-slug", "web")
	require.NoError(t, err)
	assert.Equal(t, "https://taiga.example.com/project/web/us/9\n", out)

	_, err = run(t, "url", "taiga", "9", "--project-slug", "web")
	assert.ErrorContains(t, err, "missing --service-url")
}

func TestCreateCommand(t *testing.T) {
	srv := taigatest.NewServer("bot", "secret")
	defer srv.Close()
	status := int64(4)
	srv.AddProject(taiga.Project{ID: 1, Slug: "web", DefaultIssueStatus: &status})
	srv.NextRef = 31

	out, err := run(t, "create", "taiga",
		"--config", writeConfig(t),
		"--service-url", srv.URL,
		"--username", "bot",
		"--password", "secret",
		"--project-slug", "web",
		"--labels", "ops, sentry",
		"--title", "Crash",
		"--timeout", (10 * time.Second).String(),
	)
	require.NoError(t, err)
	assert.Equal(t, "TG-31 "+srv.URL+"/project/web/issue/31\n", out)

	req := srv.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, []interface{}{"ops", "sentry"}, req.Body["tags"])
}

func TestCreateCommand_ReportsConnectorError(t *testing.T) {
	srv := taigatest.NewServer("bot", "secret")
	defer srv.Close()

	_, err := run(t, "create", "taiga",
		"--config", writeConfig(t),
		"--service-url", srv.URL,
		"--username", "bot",
		"--password", "secret",
		"--project-slug", "nowhere",
		"--title", "Crash",
	)
	assert.EqualError(t, err, "No project found in Taiga with slug nowhere")
}

func TestManifestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugins.json")

	out, err := run(t, "manifest", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 plugins")

	m, err := registry.LoadManifest(path)
	require.NoError(t, err)
	p := m.Find("taiga-userstory")
	require.NotNil(t, p)
	assert.Equal(t, "taiga.item.create", p.TaskType)
	assert.Equal(t, "Create Taiga User Story", p.NewItemTitle)
	assert.Contains(t, p.ErrorCodes, "INTEGRATION_ERROR")
	assert.Equal(t, []interface{}{"pluginSlug", "projectId", "title"}, p.InputSchema["required"])
}

func TestCreateCommand_HelpHidesCredentials(t *testing.T) {
	t.Setenv("TAIGA_USERNAME", "ops-bot")
	t.Setenv("TAIGA_PASSWORD", "hunter2")

	out, err := run(t, "create", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--username")
	assert.NotContains(t, out, "ops-bot")
	assert.NotContains(t, out, "hunter2")
}

func TestCreateCommand_CredentialsFromEnv(t *testing.T) {
	srv := taigatest.NewServer("bot", "secret")
	defer srv.Close()
	status := int64(4)
	srv.AddProject(taiga.Project{ID: 1, Slug: "web", DefaultIssueStatus: &status})
	srv.NextRef = 8

	t.Setenv("TAIGA_USERNAME", "bot")
	t.Setenv("TAIGA_PASSWORD", "secret")

	out, err := run(t, "create", "taiga",
		"--config", writeConfig(t),
		"--service-url", srv.URL,
		"--project-slug", "web",
		"--title", "Crash",
	)
	require.NoError(t, err)
	assert.Equal(t, "TG-8 "+srv.URL+"/project/web/issue/8\n", out)
}
