// Package source holds the in-memory model of generated source files.
//
// A ClassModel owns its fields, methods, constructors and annotations. Members
// refer to their class by Handle, and share its lifecycle: once Build returns
// the render context, every mutation fails with modelgen.ErrClassRendered.
//
// Invariants are checked when the model is mutated, not when it is rendered:
// accessors are synthesized as soon as a Get or Set field is added, abstract
// and interface methods reject bodies, and names must be identifiers.
package source
