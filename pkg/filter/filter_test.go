// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xataio/indexschema/pkg/geo"
)

func TestLiteral(t *testing.T) {
	t.Parallel()

	str := "O'Neil"
	var nilStr *string

	tests := []struct {
		name  string
		value any

		want    string
		wantErr error
	}{
		{name: "null", value: nil, want: "null"},
		{name: "bool", value: true, want: "true"},
		{name: "int", value: 42, want: "42"},
		{name: "negative int64", value: int64(-7), want: "-7"},
		{name: "uint8", value: uint8(255), want: "255"},
		{name: "float", value: 2.5, want: "2.5"},
		{name: "whole float", value: 4.0, want: "4.0"},
		{name: "float32", value: float32(0.1), want: "0.1"},
		{name: "nan", value: math.NaN(), want: "NaN"},
		{name: "positive infinity", value: math.Inf(1), want: "INF"},
		{name: "negative infinity", value: math.Inf(-1), want: "-INF"},
		{name: "string", value: "Luxury", want: "'Luxury'"},
		{name: "string with quotes", value: "it's 'quoted'", want: "'it''s ''quoted'''"},
		{name: "string pointer", value: &str, want: "'O''Neil'"},
		{name: "nil pointer", value: nilStr, want: "null"},
		{
			name:  "time",
			value: time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("CET", 3600)),
			want:  "2024-03-01T09:30:00Z",
		},
		{
			name:  "geo position",
			value: geo.NewPosition(-122.131577, 47.678581),
			want:  "geography'POINT(-122.131577 47.678581)'",
		},
		{
			name: "geo polygon",
			value: geo.NewPolygon(geo.NewLineString(
				geo.NewPosition(0, 0),
				geo.NewPosition(0, 1),
				geo.NewPosition(1, 1),
				geo.NewPosition(0, 0),
			)),
			want: "geography'POLYGON((0 0, 0 1, 1 1, 0 0))'",
		},
		{
			name:    "invalid geo line",
			value:   geo.NewLineString(geo.NewPosition(0, 0)),
			wantErr: geo.ErrInvalidArgument,
		},
		{
			name:    "unsupported",
			value:   map[string]string{},
			wantErr: ErrUnsupportedValue,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Literal(tc.value)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	got, err := Create("rating gt %s and category eq %v and parkingIncluded eq %s", 4, "Budget's", false)
	require.NoError(t, err)
	require.Equal(t, "rating gt 4 and category eq 'Budget''s' and parkingIncluded eq false", got)

	got, err = Create("geo.distance(location, %s) le 10", geo.NewPosition(1, 2))
	require.NoError(t, err)
	require.Equal(t, "geo.distance(location, geography'POINT(1 2)') le 10", got)

	_, err = Create("tags/any(t: t eq %s)", []int{1})
	require.ErrorIs(t, err, ErrUnsupportedValue)
}
