package scheduler

import "fmt"

// unknownModelError signals a catalog miss. Never retried; selection skips it.
type unknownModelError struct{ id string }

func (e unknownModelError) Error() string { return "unknown model: " + e.id }

// ErrUnknownModel returns an error for a model id absent from the catalog.
func ErrUnknownModel(id string) error { return unknownModelError{id: id} }

// IsUnknownModel reports whether err indicates a catalog miss.
func IsUnknownModel(err error) bool {
	_, ok := err.(unknownModelError)
	return ok
}

// insufficientResourcesError signals an admission failure.
type insufficientResourcesError struct {
	id     string
	reason string
}

func (e insufficientResourcesError) Error() string {
	return fmt.Sprintf("insufficient resources for %s: %s", e.id, e.reason)
}

// ErrInsufficientResources returns an admission-failure error.
func ErrInsufficientResources(id, reason string) error {
	return insufficientResourcesError{id: id, reason: reason}
}

// IsInsufficientResources reports whether err indicates an admission failure.
func IsInsufficientResources(err error) bool {
	_, ok := err.(insufficientResourcesError)
	return ok
}

// runtimeUnreachableError signals a failed load/unload call to the external
// runtime. Not fatal to the scheduler.
type runtimeUnreachableError struct {
	op    string
	id    string
	cause error
}

func (e runtimeUnreachableError) Error() string {
	return fmt.Sprintf("runtime %s %s: %v", e.op, e.id, e.cause)
}

func (e runtimeUnreachableError) Unwrap() error { return e.cause }

// ErrRuntimeUnreachable returns an error for a failed runtime call.
func ErrRuntimeUnreachable(op, id string, cause error) error {
	return runtimeUnreachableError{op: op, id: id, cause: cause}
}

// IsRuntimeUnreachable reports whether err indicates a failed runtime call.
func IsRuntimeUnreachable(err error) bool {
	_, ok := err.(runtimeUnreachableError)
	return ok
}

// notLoadedError signals an evict of a model with no bookkeeping entry.
type notLoadedError struct{ id string }

func (e notLoadedError) Error() string { return "model not loaded: " + e.id }

// ErrNotLoaded returns an error for an evict of an unloaded model.
func ErrNotLoaded(id string) error { return notLoadedError{id: id} }

// IsNotLoaded reports whether err indicates the model was not loaded.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}

// mainBrainProtectedError signals an attempt to evict the protected model.
type mainBrainProtectedError struct{ id string }

func (e mainBrainProtectedError) Error() string {
	return "refusing to evict main brain: " + e.id
}

// ErrMainBrainProtected returns an error for an evict of the protected model.
func ErrMainBrainProtected(id string) error { return mainBrainProtectedError{id: id} }

// IsMainBrainProtected reports whether err indicates main-brain protection.
func IsMainBrainProtected(err error) bool {
	_, ok := err.(mainBrainProtectedError)
	return ok
}

// noModelAvailableError signals that no model could serve a task at all.
type noModelAvailableError struct{}

func (noModelAvailableError) Error() string { return "no model available" }

// ErrNoModelAvailable returns the total-unavailability error.
func ErrNoModelAvailable() error { return noModelAvailableError{} }

// IsNoModelAvailable reports whether err indicates total unavailability.
func IsNoModelAvailable(err error) bool {
	_, ok := err.(noModelAvailableError)
	return ok
}
