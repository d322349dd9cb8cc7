package net

// Error is a wrapper for specific types of errors for which there is no
// additional information necessary. These errors are defined as global
// variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned, usually wrapped with
// context describing the operation that hit them.
var (
	// ErrNotFeedForward is returned by depth analysis when a node's
	// ancestry contains a cycle.
	ErrNotFeedForward = Error{"network is not feed-forward"}

	// ErrNoOutputs is returned by operations that require declared output
	// nodes -- depth analysis and training -- when a Network has none.
	ErrNoOutputs = Error{"network has no outputs"}

	// ErrNilNode is returned when a nil node is given where a parent or an
	// output is required.
	ErrNilNode = Error{"node is nil"}
)
