// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/xataio/indexschema/pkg/geo"
)

var ErrUnsupportedValue = errors.New("unsupported filter value")

// Create returns a filter expression where every argument is replaced by its
// OData literal. Arguments must be referenced with the %s or %v verbs, e.g.
//
//	filter.Create("rating gt %s and category eq %s", 4, "Luxury")
func Create(format string, args ...any) (string, error) {
	literals := make([]any, 0, len(args))
	for i, arg := range args {
		l, err := Literal(arg)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		literals = append(literals, l)
	}
	return fmt.Sprintf(format, literals...), nil
}

// Literal returns the OData literal for the value on input.
func Literal(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(value), nil
	case int:
		return strconv.FormatInt(int64(value), 10), nil
	case int8:
		return strconv.FormatInt(int64(value), 10), nil
	case int16:
		return strconv.FormatInt(int64(value), 10), nil
	case int32:
		return strconv.FormatInt(int64(value), 10), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case uint:
		return strconv.FormatUint(uint64(value), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(value), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(value), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(value), 10), nil
	case uint64:
		return strconv.FormatUint(value, 10), nil
	case float32:
		return formatFloat(float64(value), 32), nil
	case float64:
		return formatFloat(value, 64), nil
	case string:
		return quote(value), nil
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano), nil
	case geo.Position:
		return geo.NewFormatter().Point(value)
	case geo.LineString:
		return geo.NewFormatter().LineStringPolygon(value)
	case geo.Polygon:
		return geo.NewFormatter().Polygon(value)
	case fmt.Stringer:
		return quote(value.String()), nil
	}

	// pointers to supported values
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null", nil
		}
		return Literal(rv.Elem().Interface())
	}

	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(v, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eEn") {
		// keep the literal a double
		s += ".0"
	}
	return s
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
