package form

import (
	"context"
	"fmt"
)

const maxSuffixAttempts = 100

// UniquePersistenceIdentifier returns the first free
// "<savePath>/<formIdentifier>[_n].form.yaml" for n in 1..99, falling back
// to a unix timestamp suffix.
func (m *Manager) UniquePersistenceIdentifier(ctx context.Context, formIdentifier, savePath string) (string, error) {
	savePath = withSlash(savePath)

	candidate := savePath + formIdentifier + FileExtension
	if m.isFreePersistenceIdentifier(ctx, candidate) {
		return candidate, nil
	}
	for attempt := 1; attempt < maxSuffixAttempts; attempt++ {
		candidate = savePath + fmt.Sprintf("%s_%d", formIdentifier, attempt) + FileExtension
		if m.isFreePersistenceIdentifier(ctx, candidate) {
			return candidate, nil
		}
	}
	candidate = savePath + fmt.Sprintf("%s_%d", formIdentifier, m.svc.now().Unix()) + FileExtension
	if m.isFreePersistenceIdentifier(ctx, candidate) {
		return candidate, nil
	}
	return "", &NoUniquePersistenceIdentifierError{Identifier: formIdentifier, Attempts: maxSuffixAttempts}
}

// isFreePersistenceIdentifier only checks existence. Concurrent callers can
// get the same candidate; Save claims new files through the Reserver.
func (m *Manager) isFreePersistenceIdentifier(ctx context.Context, candidate string) bool {
	return !m.Exists(ctx, candidate)
}

// UniqueIdentifier returns identifier, or identifier_n when it is already
// used by a listed form.
func (m *Manager) UniqueIdentifier(ctx context.Context, identifier string) (string, error) {
	used, err := m.usedIdentifiers(ctx)
	if err != nil {
		return "", err
	}
	if !used[identifier] {
		return identifier, nil
	}
	for attempt := 1; attempt < maxSuffixAttempts; attempt++ {
		candidate := fmt.Sprintf("%s_%d", identifier, attempt)
		if !used[candidate] {
			return candidate, nil
		}
	}
	candidate := fmt.Sprintf("%s_%d", identifier, m.svc.now().Unix())
	if !used[candidate] {
		return candidate, nil
	}
	return "", &NoUniqueIdentifierError{Identifier: candidate, Attempts: maxSuffixAttempts}
}

// CheckForDuplicateIdentifier reports whether a listed form uses identifier
func (m *Manager) CheckForDuplicateIdentifier(ctx context.Context, identifier string) (bool, error) {
	used, err := m.usedIdentifiers(ctx)
	if err != nil {
		return false, err
	}
	return used[identifier], nil
}

func (m *Manager) usedIdentifiers(ctx context.Context) (map[string]bool, error) {
	forms, err := m.ListForms(ctx)
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(forms))
	for _, f := range forms {
		used[f.Identifier] = true
	}
	return used, nil
}
