// Package validation provides input validation utilities for modelgraph.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// used for graph manifests and API request bodies.
//
// # Struct Tag Validation
//
//	type NodeDef struct {
//	    Predictor string `yaml:"predictor" validate:"required"`
//	}
//	err := validation.Validate(def)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("name", name)
//	err := v.Validate()
package validation
