// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package xmlio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mechyard/crowdsolve/math/lin"
)

// parseFloat parses a required numeric attribute, returning a NumericError
// naming the offending field on failure.
func parseFloat(path, field, raw string) (float64, error) {
	if raw == "" {
		return 0, &SchemaError{Path: path, Detail: fmt.Sprintf("missing required attribute %s", field)}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &NumericError{Path: path, Detail: fmt.Sprintf("%s=%q is not a number", field, raw)}
	}
	return v, nil
}

// parsePair parses a "a,b" attribute into a lin.V2, returning a NumericError
// if it does not have exactly two comma-separated components.
func parsePair(path, field, raw string) (lin.V2, error) {
	if raw == "" {
		return lin.V2{}, &SchemaError{Path: path, Detail: fmt.Sprintf("missing required attribute %s", field)}
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return lin.V2{}, &NumericError{Path: path, Detail: fmt.Sprintf("%s=%q is not a 2D pair", field, raw)}
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return lin.V2{}, &NumericError{Path: path, Detail: fmt.Sprintf("%s=%q has a non-numeric first component", field, raw)}
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return lin.V2{}, &NumericError{Path: path, Detail: fmt.Sprintf("%s=%q has a non-numeric second component", field, raw)}
	}
	return lin.Vec2(x, y), nil
}

// formatPair renders a lin.V2 as the "a,b" wire format, using Go's default
// float formatting (host numeric printing, per the AgentDynamics output
// document's formatting rule).
func formatPair(v lin.V2) string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + "," + strconv.FormatFloat(v.Y, 'g', -1, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
