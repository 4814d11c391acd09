package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationError_MessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	ie := NewIntegrationError(cause, "Error Communicating with Taiga: %s", cause)

	assert.Equal(t, "Error Communicating with Taiga: connection refused", ie.Error())
	assert.ErrorIs(t, ie, cause)
}

func TestAsIntegrationError(t *testing.T) {
	ie := NewIntegrationError(nil, "No project found in Taiga with slug %s", "acme")
	wrapped := fmt.Errorf("create failed: %w", ie)

	got, ok := AsIntegrationError(wrapped)
	require.True(t, ok)
	assert.Same(t, ie, got)

	_, ok = AsIntegrationError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		retryable bool
	}{
		{
			name:     "integration error is not retryable",
			err:      NewIntegrationError(stderrors.New("503"), "Error creating Taiga issue: %s", "503"),
			wantCode: ErrCodeIntegration,
		},
		{
			name:     "standard error passes through",
			err:      NewUnknownPluginError("jira"),
			wantCode: ErrCodeUnknownPlugin,
		},
		{
			name:      "options unavailable is retryable",
			err:       NewOptionsUnavailableError(stderrors.New("redis down")),
			wantCode:  ErrCodeOptionsUnavailable,
			retryable: true,
		},
		{
			name:     "unknown error becomes internal",
			err:      stderrors.New("boom"),
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}

	assert.Nil(t, Normalize(nil))
}

func TestFromIntegrationError_KeepsCauseInDetails(t *testing.T) {
	ie := NewIntegrationError(stderrors.New("timeout"), "Error Communicating with Taiga: %s", "timeout")
	stdErr := FromIntegrationError(ie)

	assert.Equal(t, ie.Message, stdErr.Message)
	assert.Equal(t, "timeout", stdErr.Details)
	assert.False(t, stdErr.Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewOptionsUnavailableError(stderrors.New("down")))
	assert.Equal(t, "OPTIONS_UNAVAILABLE", bpmn.Code)
	assert.Equal(t, 3, bpmn.Retries)

	bpmn = ConvertToBPMNError(NewPluginNotConfiguredError("taiga", "42"))
	assert.Equal(t, 0, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "PLUGIN_NOT_CONFIGURED", vars["errorCode"])
	assert.Equal(t, "PLUGIN_NOT_CONFIGURED", vars["originalErrorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "EXTERNAL", GetErrorCategory(ErrCodeIntegration))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodePluginNotConfigured))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeOptionsUnavailable))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParsingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
