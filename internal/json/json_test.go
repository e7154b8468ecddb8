// SPDX-License-Identifier: Apache-2.0

package json

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalIndent(t *testing.T) {
	t.Parallel()

	b, err := MarshalIndent(map[string]any{
		"properties": map[string]any{"b": 1, "a": true},
		"dynamic":    "strict",
	}, "", "  ")
	require.NoError(t, err)
	require.Equal(t, `{
  "dynamic": "strict",
  "properties": {
    "a": true,
    "b": 1
  }
}`, string(b))
}

func TestMarshalUnmarshal(t *testing.T) {
	t.Parallel()

	type doc struct {
		Name string   `json:"name"`
		Tags []string `json:"tags,omitempty"`
	}

	b, err := Marshal(doc{Name: "hotel"})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"hotel"}`, string(b))

	var got doc
	require.NoError(t, Unmarshal([]byte(`{"name":"hotel","tags":["a"]}`), &got))
	require.Equal(t, doc{Name: "hotel", Tags: []string{"a"}}, got)
}
