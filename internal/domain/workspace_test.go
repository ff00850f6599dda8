package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVersionState(t *testing.T) {
	tests := []struct {
		in   any
		want VersionState
	}{
		{nil, VersionStateDefault},
		{0, VersionStateDefault},
		{int64(1), VersionStateNewPlaceholder},
		{float64(2), VersionStateDeletePlaceholder},
		{"3", VersionStateMovePlaceholder},
		{[]byte("4"), VersionStateMovePointer},
		{-1, VersionStateDefault},
		{99, VersionStateDefault},
		{"new", VersionStateDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseVersionState(tt.in), "%v", tt.in)
	}
}

func TestCombinedRecord_Identifier(t *testing.T) {
	withLive := NewCombinedRecord("pages", Row{"uid": int64(10)}, Row{"uid": int64(42)})
	assert.Equal(t, "pages:10", withLive.Identifier())
	assert.Equal(t, "pages:42", withLive.VersionRecord().Identifier())

	newRecord := NewCombinedRecord("pages", nil, Row{"uid": int64(43), "version_state": 1})
	assert.Nil(t, newRecord.LiveRecord())
	assert.Equal(t, "pages:43", newRecord.Identifier())
	assert.Equal(t, VersionStateNewPlaceholder, newRecord.VersionState("version_state"))
}

func TestRow_Accessors(t *testing.T) {
	row := Row{"uid": "7", "title": []byte("Home"), "sys_language_uid": uint8(1)}
	assert.Equal(t, int64(7), row.UID())
	assert.Equal(t, "Home", row.String("title"))
	assert.Equal(t, int64(1), row.Int("sys_language_uid"))
	assert.Equal(t, int64(0), row.Int("missing"))
	assert.Equal(t, "", row.String(""))
}

func TestSeverity_Ordering(t *testing.T) {
	assert.True(t, SeveritySuccess < SeverityInfo)
	assert.True(t, SeverityInfo < SeverityWarning)
	assert.True(t, SeverityWarning < SeverityError)
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "success", SeveritySuccess.String())
}

func TestFormDefinition_LooksLikeFormDefinition(t *testing.T) {
	assert.True(t, FormDefinition{"identifier": "contact", "type": " Form "}.LooksLikeFormDefinition("Form"))
	assert.False(t, FormDefinition{"identifier": "", "type": "Form"}.LooksLikeFormDefinition("Form"))
	assert.False(t, FormDefinition{"identifier": "contact", "type": "Page"}.LooksLikeFormDefinition("Form"))
	assert.False(t, FormDefinition{"type": "Form"}.LooksLikeFormDefinition("Form"))
	assert.False(t, FormDefinition(nil).LooksLikeFormDefinition("Form"))
}
