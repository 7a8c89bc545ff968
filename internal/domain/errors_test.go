package domain

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchError_Is(t *testing.T) {
	err := NewNetworkError("wpcom", 2, io.ErrUnexpectedEOF)

	assert.True(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "page 2")

	var fe *FetchError
	assert.True(t, errors.As(NewParseError("wporg", 1, errors.New("bad json")), &fe))
	assert.Equal(t, ErrParse, fe.Kind)
	assert.Equal(t, "wporg", fe.Source)
}
