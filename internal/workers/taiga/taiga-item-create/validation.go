package taigaitemcreate

import "sentry-taiga/internal/common/validation"

// inputVariables are the only process variables fetched for a job.
var inputVariables = []string{"pluginSlug", "projectId", "title", "description"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"pluginSlug", "projectId", "title"},
		Properties: map[string]validation.Property{
			"pluginSlug": {
				Type:        "string",
				Description: "Slug of the connector plugin (taiga or taiga-userstory)",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(64),
			},
			"projectId": {
				Type:        "string",
				Description: "Host project whose plugin options are used",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(128),
			},
			"title": {
				Type:        "string",
				Description: "Subject of the Taiga item",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(500),
			},
			"description": {
				Type:        "string",
				Description: "Body of the Taiga item",
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "Whether the item was created",
			},
			"message": {
				Type:        "string",
				Description: "Result message",
			},
			"kind": {
				Type:        "string",
				Description: "Item kind",
				Enum:        []string{"issue", "userstory"},
			},
			"ref": {
				Type:        "integer",
				Description: "Project-scoped Taiga reference number",
			},
			"label": {
				Type:        "string",
				Description: "Display label, e.g. TG-42",
			},
			"url": {
				Type:        "string",
				Description: "Taiga web URL of the item",
			},
			"createdAt": {
				Type:        "string",
				Description: "Timestamp when the item was created",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
