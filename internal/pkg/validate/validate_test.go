package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Key   string `json:"key" validate:"required,alphanum"`
	Label string `validate:"required"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(&sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'key' failed 'required'")
	assert.Contains(t, err.Error(), "field 'Label' failed 'required'")
}

func TestStruct_Alphanum(t *testing.T) {
	err := Struct(&sample{Key: "abc/../x", Label: "l"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'alphanum'")
	assert.NoError(t, Struct(&sample{Key: "abc123", Label: "l"}))
}
