package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		Quantity  Optional[int]    `json:"quantity"`
		Completed Optional[bool]   `json:"completed"`
		Notes     Optional[string] `json:"notes"`
		Name      Optional[string] `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": 0, "completed": false, "notes": null}`), &body))

	assert.True(t, body.Quantity.HasValue())
	assert.Equal(t, 0, body.Quantity.Value)
	assert.True(t, body.Completed.HasValue())
	assert.False(t, body.Completed.Value)
	assert.True(t, body.Notes.Set)
	assert.True(t, body.Notes.Null)
	assert.False(t, body.Name.Set, "absent keys stay unset")
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var body struct {
		Quantity Optional[int] `json:"quantity"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": "two"}`), &body))
}
