package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"title":       {Type: "string", MinLength: IntPtr(1), MaxLength: IntPtr(200)},
			"description": {Type: "string"},
			"kind":        {Type: "string", Enum: []string{"issue", "userstory"}},
			"slug":        {Type: "string", Pattern: StringPtr(`^[a-z0-9-]+$`)},
		},
		Required:             []string{"title"},
		AdditionalProperties: false,
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantField string
		wantCode  string
	}{
		{
			name:      "valid input",
			input:     map[string]interface{}{"title": "Crash", "description": "NPE"},
			wantValid: true,
		},
		{
			name:      "missing required field",
			input:     map[string]interface{}{"description": "NPE"},
			wantField: "title",
			wantCode:  CodeRequiredFieldMissing,
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"title": 42},
			wantField: "title",
			wantCode:  CodeInvalidType,
		},
		{
			name:      "empty title",
			input:     map[string]interface{}{"title": ""},
			wantField: "title",
			wantCode:  CodeMinLengthViolation,
		},
		{
			name:      "extra field",
			input:     map[string]interface{}{"title": "Crash", "priority": "high"},
			wantField: "priority",
			wantCode:  CodeExtraField,
		},
		{
			name:      "enum violation",
			input:     map[string]interface{}{"title": "Crash", "kind": "epic"},
			wantField: "kind",
			wantCode:  CodeInvalidEnumValue,
		},
		{
			name:      "pattern mismatch",
			input:     map[string]interface{}{"title": "Crash", "slug": "Not A Slug"},
			wantField: "slug",
			wantCode:  CodePatternMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, formSchema())
			require.NotNil(t, result)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.True(t, result.HasErrors(tt.wantField), "errors: %v", result.GetErrorMessages())
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
		})
	}
}

func TestGetSchemaFromJSON(t *testing.T) {
	schema, err := GetSchemaFromJSON(`{"type":"object","properties":{"title":{"type":"string"}},"required":["title"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["title"].Type)

	_, err = GetSchemaFromJSON(`{`)
	assert.Error(t, err)
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://tree.taiga.io"))
	assert.True(t, ValidateURL("http://localhost:9000/"))
	assert.False(t, ValidateURL("tree.taiga.io"))
	assert.False(t, ValidateURL(""))
}
