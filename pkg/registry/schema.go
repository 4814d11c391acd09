// pkg/registry/schema.go
package registry

// Manifest lists the connector plugins a deployment ships, with the
// configuration forms and workflow task contract of each.
type Manifest struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Plugins     []Plugin `json:"plugins"`
}

type Plugin struct {
	Slug         string                 `json:"slug"`
	Title        string                 `json:"title"`
	Kind         string                 `json:"kind"`
	Description  string                 `json:"description"`
	Version      string                 `json:"version"`
	NewItemTitle string                 `json:"newItemTitle"`
	TaskType     string                 `json:"taskType"`
	ConfigFields []ConfigField          `json:"configFields"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Tags         []string               `json:"tags"`
}

type ConfigField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Initial  string `json:"initial,omitempty"`
}
