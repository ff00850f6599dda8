package form

import (
	"strings"
	"testing"

	"github.com/damoang/angple-content/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtractMetadata(t *testing.T) {
	src := NewYAMLSource()
	doc := "identifier: 'contact'\r\n" +
		"type: \"Form\"\n" +
		"label: 'It''s a form'\n" +
		"prototypeName: standard\n" +
		"renderables:\n" +
		"  - identifier: page-1\n" +
		"    type: Page\n" +
		"    label: nested\n"

	meta := src.extractMetadata([]byte(doc))
	assert.Equal(t, domain.FormDefinition{
		"identifier":    "contact",
		"type":          "Form",
		"label":         "It's a form",
		"prototypeName": "standard",
	}, meta)
	assert.True(t, meta.LooksLikeFormDefinition(FormType))
}

func TestExtractMetadata_BrokenLabel(t *testing.T) {
	meta := NewYAMLSource().extractMetadata([]byte("identifier: x\ntype: Form\nlabel: 'unterminated\n"))
	assert.Equal(t, "", meta["label"])
	assert.Equal(t, "x", meta.Identifier())
}

func TestExtractMetadata_NotAForm(t *testing.T) {
	meta := NewYAMLSource().extractMetadata([]byte("identifier:\ntype: Page\n"))
	assert.False(t, meta.LooksLikeFormDefinition(FormType))
}

func TestExtractMetadata_KeysAfterLongLine(t *testing.T) {
	doc := "identifier: big\n" +
		"renderables:\n" +
		"  - text: " + strings.Repeat("a", 2<<20) + "\n" +
		"type: Form\n" +
		"label: Big"

	meta := NewYAMLSource().extractMetadata([]byte(doc))
	assert.Equal(t, "big", meta.Identifier())
	assert.Equal(t, "Big", meta["label"])
	assert.True(t, meta.LooksLikeFormDefinition(FormType))
}

func TestParseLocation(t *testing.T) {
	loc := ParseLocation("EXT:site/forms/a.form.yaml")
	assert.Equal(t, LocationKindBundle, loc.Kind)
	assert.Equal(t, "site/forms/a.form.yaml", loc.Path)

	loc = ParseLocation("12:/forms/a.form.yaml")
	assert.Equal(t, LocationKindMounted, loc.Kind)
	assert.Equal(t, 12, loc.StorageUID)
	assert.Equal(t, "/forms/a.form.yaml", loc.Path)

	assert.Equal(t, LocationKindUnknown, ParseLocation("/forms/a.form.yaml").Kind)
	assert.Equal(t, LocationKindUnknown, ParseLocation("x:/forms/").Kind)
}

func TestHasValidFileExtension(t *testing.T) {
	assert.True(t, HasValidFileExtension("1:/forms/a.form.yaml"))
	assert.False(t, HasValidFileExtension("1:/forms/a.yaml"))
	assert.False(t, HasValidFileExtension("1:/forms/a.form.yaml.bak"))
}

func TestMergeRecursive(t *testing.T) {
	base := map[string]any{
		"label": "Contact",
		"renderingOptions": map[string]any{
			"submitButtonLabel": "Submit",
			"translation":       "default",
		},
		"finishers": []any{"email"},
	}
	merged := mergeRecursive(base, map[string]any{
		"label":            "Kontakt",
		"renderingOptions": map[string]any{"submitButtonLabel": "Senden"},
		"finishers":        []any{"redirect"},
	})

	assert.Equal(t, map[string]any{
		"label": "Kontakt",
		"renderingOptions": map[string]any{
			"submitButtonLabel": "Senden",
			"translation":       "default",
		},
		"finishers": []any{"redirect"},
	}, merged)
	assert.Equal(t, "Contact", base["label"])
	assert.Equal(t, "Submit", base["renderingOptions"].(map[string]any)["submitButtonLabel"])
}

func TestLoadCacheKey(t *testing.T) {
	key := loadCacheKey("1:/forms/a.form.yaml")
	assert.Len(t, key, len("formLoad")+32)
	assert.NotEqual(t, key, loadCacheKey("1:/forms/b.form.yaml"))
}
