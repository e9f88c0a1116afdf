package diagram

import "errors"

var (
	// ErrNodeNotFound is returned when an operation names a node that is not
	// part of the scene.
	ErrNodeNotFound = errors.New("node not in scene")
	// ErrSelfLink is returned when a connector would start and end on the
	// same node.
	ErrSelfLink = errors.New("connector endpoints are the same node")
)
