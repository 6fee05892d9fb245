// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package xmlio

import "fmt"

// Package xmlio reads and writes the XML documents that feed and drain the
// solver: Parameters, Materials, Geometry, Agents, AgentDynamics (input and
// output), and AgentInteractions. Every load failure is one of the five
// error kinds below; all are fatal, surfaced to the caller as a non-zero
// exit code, and never leave a partially built scene behind.

// DocumentLoadError reports that a document file could not be opened or
// could not be parsed as well-formed XML.
type DocumentLoadError struct {
	Path string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("xmlio: cannot load %s: %v", e.Path, e.Err)
}

func (e *DocumentLoadError) Unwrap() error { return e.Err }

// SchemaError reports a required tag or attribute missing from an
// otherwise well-formed document.
type SchemaError struct {
	Path   string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("xmlio: %s: schema error: %s", e.Path, e.Detail)
}

// ReferenceError reports an id referenced by one document but not declared
// by the document that owns it: a material id unknown to Materials, or an
// agent id in AgentDynamics unknown to Agents.
type ReferenceError struct {
	Path   string
	Detail string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("xmlio: %s: reference error: %s", e.Path, e.Detail)
}

// NumericError reports an attribute that could not be parsed as a number,
// or a 2D pair attribute ("a,b") that did not have exactly two components.
type NumericError struct {
	Path   string
	Detail string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("xmlio: %s: numeric error: %s", e.Path, e.Detail)
}

// MissingPairError reports that the material contact table is incomplete:
// an unordered pair of declared materials (including a self-pair) has no
// Binary/Contact entry.
type MissingPairError struct {
	Path string
	A, B string
}

func (e *MissingPairError) Error() string {
	return fmt.Sprintf("xmlio: %s: missing contact pair for materials %q and %q", e.Path, e.A, e.B)
}
