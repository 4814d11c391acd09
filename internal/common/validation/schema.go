package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Pattern     *string  `json:"pattern,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes reported in ValidationError.Code.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeExtraField           = "EXTRA_FIELD"
	CodeInvalidType          = "INVALID_TYPE"
	CodeMinLengthViolation   = "MIN_LENGTH_VIOLATION"
	CodeMaxLengthViolation   = "MAX_LENGTH_VIOLATION"
	CodePatternMismatch      = "PATTERN_MISMATCH"
	CodeInvalidEnumValue     = "INVALID_ENUM_VALUE"
	CodeSchemaInvalid        = "SCHEMA_INVALID"
)

var gojsonschemaCodes = map[string]string{
	"required":                        CodeRequiredFieldMissing,
	"additional_property_not_allowed": CodeExtraField,
	"invalid_type":                    CodeInvalidType,
	"string_gte":                      CodeMinLengthViolation,
	"string_lte":                      CodeMaxLengthViolation,
	"pattern":                         CodePatternMismatch,
	"enum":                            CodeInvalidEnumValue,
}

// ValidateInput validates input against schema using gojsonschema.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    CodeSchemaInvalid,
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, convertResultError(re))
	}
	return out
}

func convertResultError(re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	// gojsonschema reports required/additional property errors on the parent.
	if prop, ok := re.Details()["property"].(string); ok && prop != "" {
		if field == "(root)" {
			field = prop
		} else {
			field = field + "." + prop
		}
	}

	code, ok := gojsonschemaCodes[re.Type()]
	if !ok {
		code = strings.ToUpper(re.Type())
	}

	return ValidationError{
		Field:   field,
		Message: re.Description(),
		Code:    code,
	}
}

// GetSchemaFromJSON parses JSON schema from string
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

var urlPattern = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)

// ValidateURL reports whether s looks like an absolute http(s) URL.
func ValidateURL(s string) bool {
	return urlPattern.MatchString(s)
}

// IntPtr and StringPtr help build Property constraints inline.
func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }
