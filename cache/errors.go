package cache

import "github.com/pkg/errors"

// Sentinel errors for the admission/configuration error taxonomy. Use
// errors.Is to match these across any wrapping.
var (
	ErrDependenciesDisabled = errors.New("dependencies disabled")
	ErrMemoryLimitExceeded  = errors.New("memory limit exceeded")
	ErrKeyLimitExceeded     = errors.New("key limit exceeded")
)

// ParentNotFoundError reports that a referenced parent key does not
// currently exist.
type ParentNotFoundError struct {
	Parent string
	cause  error
}

func (e *ParentNotFoundError) Error() string {
	return errors.Wrapf(e.cause, "parent key %q not found", e.Parent).Error()
}

func (e *ParentNotFoundError) Unwrap() error { return e.cause }

func newParentNotFoundError(parent string) error {
	return &ParentNotFoundError{Parent: parent, cause: errors.New("parent not found")}
}

// DependencyCycleError reports that attaching parent to key would create
// or reveal a cycle in the dependency forest.
type DependencyCycleError struct {
	Key    string
	Parent string
	cause  error
}

func (e *DependencyCycleError) Error() string {
	return errors.Wrapf(e.cause, "attaching parent %q to key %q would create a cycle", e.Parent, e.Key).Error()
}

func (e *DependencyCycleError) Unwrap() error { return e.cause }

func newDependencyCycleError(key, parent string) error {
	return &DependencyCycleError{Key: key, Parent: parent, cause: errors.New("dependency cycle")}
}
