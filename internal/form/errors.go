package form

import (
	"fmt"

	"github.com/damoang/angple-content/internal/common"
)

// PersistenceError is a policy violation: disallowed path, wrong suffix,
// disabled bundle writes, missing permission or a failed write.
type PersistenceError struct {
	Code       int
	Identifier string
	Message    string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes every policy violation match common.ErrForbidden
func (e *PersistenceError) Is(target error) bool {
	return target == common.ErrForbidden
}

func policyError(code int, identifier, format string, args ...any) *PersistenceError {
	return &PersistenceError{Code: code, Identifier: identifier, Message: fmt.Sprintf(format, args...)}
}

// NoSuchFileError 파일이 없음
type NoSuchFileError struct {
	Code       int
	Identifier string
	Err        error
}

func (e *NoSuchFileError) Error() string {
	return fmt.Sprintf("YAML file %q could not be loaded", e.Identifier)
}

func (e *NoSuchFileError) Unwrap() error { return e.Err }

// Is makes the error match common.ErrNotFound
func (e *NoSuchFileError) Is(target error) bool {
	return target == common.ErrNotFound
}

// NoUniquePersistenceIdentifierError means every candidate file name was taken
type NoUniquePersistenceIdentifierError struct {
	Identifier string
	Attempts   int
}

func (e *NoUniquePersistenceIdentifierError) Error() string {
	return fmt.Sprintf("could not find a unique persistence identifier for form identifier %q after %d attempts", e.Identifier, e.Attempts)
}

// Is makes the error match common.ErrConflict
func (e *NoUniquePersistenceIdentifierError) Is(target error) bool {
	return target == common.ErrConflict
}

// NoUniqueIdentifierError means every candidate form identifier was taken
type NoUniqueIdentifierError struct {
	Identifier string
	Attempts   int
}

func (e *NoUniqueIdentifierError) Error() string {
	return fmt.Sprintf("could not find a unique identifier for form identifier %q after %d attempts", e.Identifier, e.Attempts)
}

// Is makes the error match common.ErrConflict
func (e *NoUniqueIdentifierError) Is(target error) bool {
	return target == common.ErrConflict
}

// CreationInProgressError means another writer is creating the same new file
type CreationInProgressError struct {
	Identifier string
}

func (e *CreationInProgressError) Error() string {
	return fmt.Sprintf("the file %q is being created by another request", e.Identifier)
}

// Is makes the error match common.ErrConflict
func (e *CreationInProgressError) Is(target error) bool {
	return target == common.ErrConflict
}
