package bundler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnexpectedFilePathError(t *testing.T) {
	err := &UnexpectedFilePathError{Path: "/outside/x.js"}
	assert.Contains(t, err.Error(), "/outside/x.js")
	assert.True(t, errors.Is(err, ErrUnexpectedFilePath))
}

func TestUnresolvedDependenciesError(t *testing.T) {
	err := &UnresolvedDependenciesError{Specifiers: []string{"left-pad", "lodash"}}
	assert.Contains(t, err.Error(), "left-pad")
	assert.Contains(t, err.Error(), "lodash")
}

func TestReadFailureError(t *testing.T) {
	inner := errors.New("permission denied")
	err := &ReadFailureError{Path: "/x.js", Err: inner}
	assert.Contains(t, err.Error(), "/x.js")
	assert.True(t, errors.Is(err, inner))
}
