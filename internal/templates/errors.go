package templates

import "errors"

var (
	// ErrTemplateNotFound is returned when an id or alias does not resolve to a stored template
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplateID is returned for non-positive template ids
	ErrInvalidTemplateID = errors.New("template id must be a positive integer")

	// ErrMissingAlias is returned when an alias lookup is attempted with an empty alias
	ErrMissingAlias = errors.New("template alias is required")
)
