package form

import (
	"context"
	"strings"
	"testing"

	"github.com/damoang/angple-content/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIndexer map[string]int64

func (ix staticIndexer) UID(_ context.Context, _ int, identifier string) (int64, error) {
	return ix[identifier], nil
}

func (ix staticIndexer) Forget(_ context.Context, _ int, identifier string) error {
	delete(ix, identifier)
	return nil
}

func byPersistenceIdentifier(forms []domain.FormSummary) map[string]domain.FormSummary {
	out := make(map[string]domain.FormSummary, len(forms))
	for _, f := range forms {
		out[f.PersistenceIdentifier] = f
	}
	return out
}

func TestListForms_DuplicateFlagging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeStorage(t, "forms/contact.form.yaml", formYAML("contact", "Contact"))
	f.writeStorage(t, "forms/nested/newsletter.form.yaml", formYAML("newsletter", "Newsletter"))
	f.writeBundle(t, "site/forms/contact.form.yaml", formYAML("contact", "Shipped contact"))
	m := f.manager(f.settings())

	forms, err := m.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 3)

	got := byPersistenceIdentifier(forms)
	assert.True(t, got["1:/forms/contact.form.yaml"].DuplicateIdentifier)
	assert.True(t, got["EXT:site/forms/contact.form.yaml"].DuplicateIdentifier)
	assert.False(t, got["1:/forms/nested/newsletter.form.yaml"].DuplicateIdentifier)

	storageEntry := got["1:/forms/contact.form.yaml"]
	assert.Equal(t, domain.LocationStorage, storageEntry.Location)
	assert.Equal(t, "storage", string(storageEntry.Location))
	assert.False(t, storageEntry.ReadOnly)
	assert.True(t, storageEntry.Removable)

	bundleEntry := got["EXT:site/forms/contact.form.yaml"]
	assert.Equal(t, domain.LocationBundle, bundleEntry.Location)
	assert.Equal(t, "bundle", string(bundleEntry.Location))
	assert.True(t, bundleEntry.ReadOnly)
	assert.False(t, bundleEntry.Removable)
	assert.Equal(t, "Shipped contact", bundleEntry.Name)
}

func TestListForms_SuffixGate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeStorage(t, "forms/contact.form.yaml", formYAML("contact", "Contact"))
	f.writeStorage(t, "forms/legacy.yaml", formYAML("legacy", "Legacy"))
	f.writeStorage(t, "forms/notes.yaml", "title: not a form\n")
	f.writeBundle(t, "site/forms/old.yaml", formYAML("old", "Old"))
	m := f.manager(f.settings())

	forms, err := m.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "1:/forms/contact.form.yaml", forms[0].PersistenceIdentifier)
	for _, form := range forms {
		assert.True(t, HasValidFileExtension(form.PersistenceIdentifier))
	}
}

func TestListForms_NameFallsBackToIdentifier(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeStorage(t, "forms/plain.form.yaml", "identifier: plain\ntype: Form\n")
	m := f.manager(f.settings())

	forms, err := m.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "plain", forms[0].Name)
	assert.False(t, forms[0].Invalid)
}

func TestListForms_Sorting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeStorage(t, "forms/b.form.yaml", formYAML("b", "beta"))
	f.writeStorage(t, "forms/a.form.yaml", formYAML("a", "Alpha"))
	f.writeStorage(t, "forms/c.form.yaml", formYAML("c", "gamma"))
	f.writeStorage(t, "forms/c2.form.yaml", formYAML("c2", "Gamma"))
	indexer := staticIndexer{"/forms/c.form.yaml": 20, "/forms/c2.form.yaml": 3}

	m := f.manager(f.settings(), WithFileIndexer(indexer))
	forms, err := m.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 4)
	assert.Equal(t, []string{"a", "b", "c2", "c"}, identifiers(forms))
	assert.Equal(t, int64(3), forms[2].FileUID)

	settings := f.settings()
	settings.SortAscending = false
	forms, err = f.manager(settings, WithFileIndexer(indexer)).ListForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "c2", "b", "a"}, identifiers(forms))

	settings = f.settings()
	settings.SortByKeys = []string{"identifier"}
	forms, err = f.manager(settings).ListForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "c2"}, identifiers(forms))
}

func TestHasForms(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.manager(f.settings())
	assert.False(t, m.HasForms(ctx))

	f.writeBundle(t, "site/forms/contact.form.yaml", formYAML("contact", "Contact"))
	assert.True(t, f.manager(f.settings()).HasForms(ctx))
}

func TestListForms_LongLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	big := "identifier: big\nlabel: Big\nrenderables:\n  - text: " + strings.Repeat("x", 2<<20) + "\ntype: Form\n"
	f.writeStorage(t, "forms/big.form.yaml", big)
	f.writeStorage(t, "forms/small.form.yaml", formYAML("small", "Small"))
	m := f.manager(f.settings())

	forms, err := m.ListForms(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"big", "small"}, identifiers(forms))

	id, err := m.UniqueIdentifier(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, "big_1", id)
}

func identifiers(forms []domain.FormSummary) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		out[i] = f.Identifier
	}
	return out
}
