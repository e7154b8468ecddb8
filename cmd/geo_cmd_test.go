// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xataio/indexschema/pkg/geo"
)

func TestParseRing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string

		wantRing    geo.LineString
		wantErr     error
		wantErrText string
	}{
		{
			name: "ok",
			args: []string{"-122.03,47.57", " -122.13 , 47.67", "-122.03,47.57"},
			wantRing: geo.NewLineString(
				geo.NewPosition(-122.03, 47.57),
				geo.NewPosition(-122.13, 47.67),
				geo.NewPosition(-122.03, 47.57),
			),
		},
		{
			name:    "error - missing separator",
			args:    []string{"-122.03 47.57"},
			wantErr: errInvalidPosition,
		},
		{
			name:        "error - invalid latitude",
			args:        []string{"-122.03,north"},
			wantErrText: `parsing latitude "north"`,
		},
		{
			name:        "error - invalid longitude",
			args:        []string{",47.57"},
			wantErrText: `parsing longitude ""`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ring, err := parseRing(tc.args)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.wantErrText != "":
				require.ErrorContains(t, err, tc.wantErrText)
			default:
				require.NoError(t, err)
				require.Equal(t, tc.wantRing, ring)
			}
		})
	}
}
