package wikidump

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var coordRE = regexp.MustCompile(`(?mi){{coord\|(.[^}]*)}}`)

// NoCoordFound is returned from ParseCoords when no geographical
// coordinate data is found in the text.
var NoCoordFound = errors.New("no coord data found")

var errNotSexagesimal = errors.New("not a sexagesimal value")

// A Coord is a geographical coordinate from a coord template.
type Coord struct {
	Lon float64
	Lat float64
}

func dms(parts []string) (float64, error) {
	rv := 0.0
	div := 1.0
	for _, p := range parts[:3] {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, err
		}
		rv += f / div
		div *= 60
	}
	if parts[3] == "S" || parts[3] == "W" {
		rv = -rv
	}
	return rv, nil
}

func parseSexagesimal(parts []string) (Coord, error) {
	if len(parts) < 8 {
		return Coord{}, errNotSexagesimal
	}
	if parts[3] != "N" && parts[3] != "S" {
		return Coord{}, errNotSexagesimal
	}
	if parts[7] != "E" && parts[7] != "W" {
		return Coord{}, errNotSexagesimal
	}

	lat, err := dms(parts[0:4])
	if err != nil {
		return Coord{}, err
	}
	lon, err := dms(parts[4:8])

	return Coord{Lat: lat, Lon: lon}, err
}

func parseFloat(parts []string) (rv Coord, err error) {
	if len(parts) < 2 {
		return Coord{}, NoCoordFound
	}

	offset := 0

	rv.Lat, err = strconv.ParseFloat(parts[offset], 64)
	if err != nil {
		return
	}
	offset++

	if parts[offset] == "S" {
		rv.Lat = -rv.Lat
		offset++
	} else if parts[offset] == "N" {
		offset++
	}

	// A latitude with no longitude after it.
	if offset >= len(parts) {
		return Coord{}, NoCoordFound
	}

	rv.Lon, err = strconv.ParseFloat(parts[offset], 64)
	offset++
	if len(parts) > offset && parts[offset] == "W" {
		rv.Lon = -rv.Lon
	}
	return
}

// ParseCoords parses geographical coordinates as specified in
// http://en.wikipedia.org/wiki/Wikipedia:WikiProject_Geographical_coordinates
func ParseCoords(text string) (Coord, error) {
	matches := coordRE.FindAllStringSubmatch(stripHidden(text), 1)

	if len(matches) == 0 || len(matches[0]) < 2 {
		return Coord{}, NoCoordFound
	}

	parts := strings.Split(matches[0][1], "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	firstnumber := 0
	var part string
	for firstnumber, part = range parts {
		if _, e := strconv.ParseFloat(part, 64); e == nil {
			break
		}
	}

	rv, err := parseSexagesimal(parts[firstnumber:])
	if err != nil {
		rv, err = parseFloat(parts[firstnumber:])
	}

	if err != nil {
		return Coord{}, err
	}
	if math.Abs(rv.Lat) > 90 {
		return rv, fmt.Errorf("invalid latitude: %v", rv.Lat)
	}
	if math.Abs(rv.Lon) > 180 {
		return rv, fmt.Errorf("invalid longitude: %v", rv.Lon)
	}

	return rv, nil
}
