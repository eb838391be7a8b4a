// Package modelgen generates persistence-annotated classes, Go types, GraphQL
// schemas and database schemas from a declarative project model.
//
// The model is a set of modules holding entities and enums (package schema),
// usually loaded from YAML or JSON (package compiler/load). Generation runs in
// three stages:
//
//   - compiler/resolve maps every field type name to a resolved type
//   - compiler/relation classifies each field as a column or a relation
//   - compiler/source builds the class models that templates render
//
// compiler/gen drives the pipeline and writes the artifacts, and the
// modelgen command (cmd/modelgen) exposes it together with database
// verification and migration planning (dialect/sql/schema).
//
// This package holds the sentinel errors shared by every stage:
//
//	if errors.Is(err, modelgen.ErrUnresolvedType) {
//	    // a field names a type the project does not declare
//	}
package modelgen
