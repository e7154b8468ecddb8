// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xataio/indexschema/pkg/geo"
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Formats geographic values as geography literals for search filters",
}

var geoPointCmd = &cobra.Command{
	Use:   "point <lon> <lat>",
	Short: "Formats a point as a geography literal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := parsePosition(args[0], args[1])
		if err != nil {
			return err
		}

		var out string
		if wkt, _ := cmd.Flags().GetBool("wkt"); wkt {
			out, err = geo.WKTPoint(pos)
		} else {
			out, err = geo.NewFormatter(geo.WithLogger(newLogger())).Point(pos)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
	Example: `
	indexschema geo point -- -122.131577 47.678581`,
}

var geoPolygonCmd = &cobra.Command{
	Use:   "polygon <lon,lat> <lon,lat> <lon,lat> <lon,lat>...",
	Short: "Formats a single ring polygon as a geography literal. The ring must be closed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ring, err := parseRing(args)
		if err != nil {
			return err
		}

		var out string
		polygon := geo.NewPolygon(ring)
		if wkt, _ := cmd.Flags().GetBool("wkt"); wkt {
			out, err = geo.WKTPolygon(polygon)
		} else {
			out, err = geo.NewFormatter(geo.WithLogger(newLogger())).Polygon(polygon)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
	Example: `
	indexschema geo polygon -- -122.031577,47.578581 -122.031577,47.678581 -122.131577,47.678581 -122.031577,47.578581`,
}

var errInvalidPosition = errors.New("positions must be formatted as <lon>,<lat>")

func parseRing(args []string) (geo.LineString, error) {
	positions := make([]geo.Position, 0, len(args))
	for _, arg := range args {
		lon, lat, found := strings.Cut(arg, ",")
		if !found {
			return geo.LineString{}, fmt.Errorf("%w: %q", errInvalidPosition, arg)
		}
		pos, err := parsePosition(lon, lat)
		if err != nil {
			return geo.LineString{}, err
		}
		positions = append(positions, pos)
	}
	return geo.NewLineString(positions...), nil
}

func parsePosition(lon, lat string) (geo.Position, error) {
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Position{}, fmt.Errorf("parsing longitude %q: %w", lon, err)
	}
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Position{}, fmt.Errorf("parsing latitude %q: %w", lat, err)
	}
	return geo.NewPosition(longitude, latitude), nil
}
