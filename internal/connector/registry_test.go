package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry(nil)

	issue, ok := r.Get("taiga")
	require.True(t, ok)
	assert.Equal(t, KindIssue, issue.Kind())

	story, ok := r.Get("taiga-userstory")
	require.True(t, ok)
	assert.Equal(t, KindUserStory, story.Kind())

	_, ok = r.Get("jira")
	assert.False(t, ok)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "taiga", list[0].Descriptor().Slug)
	assert.Equal(t, "taiga-userstory", list[1].Descriptor().Slug)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(New(KindIssue, nil)))
	assert.Error(t, r.Register(New(KindIssue, nil)))
}

func TestDescriptors(t *testing.T) {
	issue := New(KindIssue, nil).Descriptor()
	assert.Equal(t, "taiga", issue.Slug)
	assert.Equal(t, "Taiga", issue.Title)
	assert.Equal(t, "Taiga", issue.ConfTitle)
	assert.Equal(t, "taiga", issue.ConfKey)
	assert.Equal(t, "Create Taiga Issue", issue.NewItemTitle)
	assert.Equal(t, "Sentry", issue.Author)
	assert.Len(t, issue.ResourceLinks, 2)

	story := New(KindUserStory, nil).Descriptor()
	assert.Equal(t, "taiga-userstory", story.Slug)
	assert.Equal(t, "Create Taiga User Story", story.NewItemTitle)
}

func TestConfigSchema(t *testing.T) {
	fields := ConfigSchema(KindIssue)

	byKey := map[string]Field{}
	for _, f := range fields {
		byKey[f.Key] = f
	}

	require.Len(t, byKey, 6)
	assert.Equal(t, "https://tree.taiga.io", byKey[OptionServiceURL].Initial)
	assert.Equal(t, "https://api.taiga.io", byKey[OptionAPIURL].Initial)
	assert.False(t, byKey[OptionAPIURL].Required)
	assert.Equal(t, FieldPassword, byKey[OptionPassword].Type)
	assert.True(t, byKey[OptionProjectSlug].Required)
	assert.False(t, byKey[OptionLabels].Required)
	assert.Equal(t, "Issue Labels", byKey[OptionLabels].Label)

	storyFields := ConfigSchema(KindUserStory)
	assert.Equal(t, "User Story Labels", storyFields[len(storyFields)-1].Label)
}

func TestKind(t *testing.T) {
	assert.True(t, KindIssue.Valid())
	assert.True(t, KindUserStory.Valid())
	assert.False(t, Kind("epic").Valid())
}
