// SPDX-License-Identifier: Apache-2.0

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeFields(t *testing.T) {
	t.Parallel()

	base := Fields{"module": "index_store", "index": "hotels"}
	merged := MergeFields(base, Fields{"index": "rooms", "operation": "create"})

	require.Equal(t, Fields{"module": "index_store", "index": "rooms", "operation": "create"}, merged)
	require.Equal(t, "hotels", base["index"])
	require.Empty(t, MergeFields(nil, nil))
}

func TestNewModuleLogger(t *testing.T) {
	t.Parallel()

	require.IsType(t, &NoopLogger{}, NewModuleLogger(nil, "field_builder"))
	require.IsType(t, &NoopLogger{}, NewModuleLogger(NewNoopLogger(), "field_builder"))
}
