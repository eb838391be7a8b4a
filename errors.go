package modelgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrUnresolvedType is returned when no resolver strategy recognizes a type name.
	ErrUnresolvedType = errors.New("modelgen: unresolved type")

	// ErrAmbiguousRelation is returned when more than one reciprocal field exists.
	ErrAmbiguousRelation = errors.New("modelgen: ambiguous relation")

	// ErrMissingRelation is returned when a unidirectional reference declares no relation.
	ErrMissingRelation = errors.New("modelgen: missing relation")

	// ErrInvalidRelation is returned when a unidirectional reference declares an
	// unsupported relation.
	ErrInvalidRelation = errors.New("modelgen: invalid relation")

	// ErrUnsupportedType is returned when a field type cannot be classified.
	ErrUnsupportedType = errors.New("modelgen: unsupported type")

	// ErrIllegalBody is returned when a body is attached to an abstract or interface method.
	ErrIllegalBody = errors.New("modelgen: illegal method body")

	// ErrDuplicateSuperclass is returned on a second superclass assignment.
	ErrDuplicateSuperclass = errors.New("modelgen: duplicate superclass")

	// ErrInvalidName is returned when an identifier violates the naming grammar.
	ErrInvalidName = errors.New("modelgen: invalid name")

	// ErrFieldNotClassified is returned when classification info is requested for a
	// field that was never classified.
	ErrFieldNotClassified = errors.New("modelgen: field not classified")

	// ErrMissingMaxLength is returned when a variable-length text field has no max length.
	ErrMissingMaxLength = errors.New("modelgen: missing max length")

	// ErrMissingPrimaryKey is returned when a relation targets an entity without a
	// primary field.
	ErrMissingPrimaryKey = errors.New("modelgen: missing primary key")

	// ErrClassRendered is returned when a class model is mutated after it was built
	// for rendering.
	ErrClassRendered = errors.New("modelgen: class model already rendered")
)

// UnresolvedTypeError is returned when a raw type name matched no link in a resolver chain.
type UnresolvedTypeError struct {
	Name string
}

// Error returns the error string.
func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("modelgen: Type cannot be resolved: '%s'", e.Name)
}

// Is reports whether the target matches ErrUnresolvedType.
func (e *UnresolvedTypeError) Is(target error) bool {
	return target == ErrUnresolvedType
}

// NewUnresolvedTypeError returns a new UnresolvedTypeError for the given type name.
func NewUnresolvedTypeError(name string) *UnresolvedTypeError {
	return &UnresolvedTypeError{Name: name}
}

// IsUnresolvedType returns true if the error is an UnresolvedTypeError.
func IsUnresolvedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnresolvedType)
}

// AmbiguousRelationError is returned when the target entity holds several fields
// referring back to the source entity.
type AmbiguousRelationError struct {
	Field      string   // qualified source field, e.g. "Order.customer"
	Target     string   // target entity name
	Candidates []string // names of the reciprocal candidates
}

// Error returns the error string.
func (e *AmbiguousRelationError) Error() string {
	return fmt.Sprintf("modelgen: Found several fields {%s} in target entity '%s'. Expected only one.",
		strings.Join(e.Candidates, ", "), e.Target)
}

// Is reports whether the target matches ErrAmbiguousRelation.
func (e *AmbiguousRelationError) Is(target error) bool {
	return target == ErrAmbiguousRelation
}

// NewAmbiguousRelationError returns a new AmbiguousRelationError.
func NewAmbiguousRelationError(field, target string, candidates []string) *AmbiguousRelationError {
	return &AmbiguousRelationError{Field: field, Target: target, Candidates: candidates}
}

// IsAmbiguousRelation returns true if the error is an AmbiguousRelationError.
func IsAmbiguousRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *AmbiguousRelationError
	return errors.As(err, &e) || errors.Is(err, ErrAmbiguousRelation)
}

// MissingRelationError is returned when a unidirectional entity reference does not
// declare its relation.
type MissingRelationError struct {
	Field   string
	Allowed []string
}

// Error returns the error string.
func (e *MissingRelationError) Error() string {
	return fmt.Sprintf("modelgen: Relation for field '%s' must be specified. Allowed types: [%s]",
		e.Field, strings.Join(e.Allowed, " "))
}

// Is reports whether the target matches ErrMissingRelation.
func (e *MissingRelationError) Is(target error) bool {
	return target == ErrMissingRelation
}

// NewMissingRelationError returns a new MissingRelationError.
func NewMissingRelationError(field string, allowed []string) *MissingRelationError {
	return &MissingRelationError{Field: field, Allowed: allowed}
}

// IsMissingRelation returns true if the error is a MissingRelationError.
func IsMissingRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingRelationError
	return errors.As(err, &e) || errors.Is(err, ErrMissingRelation)
}

// InvalidRelationError is returned when a unidirectional entity reference declares a
// relation outside the allowed set.
type InvalidRelationError struct {
	Field    string
	Relation string
	Allowed  []string
}

// Error returns the error string.
func (e *InvalidRelationError) Error() string {
	return fmt.Sprintf("modelgen: Invalid relation '%s' for field '%s'. Expected: [%s]",
		e.Relation, e.Field, strings.Join(e.Allowed, " "))
}

// Is reports whether the target matches ErrInvalidRelation.
func (e *InvalidRelationError) Is(target error) bool {
	return target == ErrInvalidRelation
}

// NewInvalidRelationError returns a new InvalidRelationError.
func NewInvalidRelationError(field, relation string, allowed []string) *InvalidRelationError {
	return &InvalidRelationError{Field: field, Relation: relation, Allowed: allowed}
}

// IsInvalidRelation returns true if the error is an InvalidRelationError.
func IsInvalidRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidRelationError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidRelation)
}

// UnsupportedFieldTypeError is returned when the resolved type of a field is not one
// the relation engine can classify.
type UnsupportedFieldTypeError struct {
	Field string
	Type  string
}

// Error returns the error string.
func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("modelgen: Unsupported field type '%s' for field '%s'", e.Type, e.Field)
}

// Is reports whether the target matches ErrUnsupportedType.
func (e *UnsupportedFieldTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewUnsupportedFieldTypeError returns a new UnsupportedFieldTypeError.
func NewUnsupportedFieldTypeError(field, typ string) *UnsupportedFieldTypeError {
	return &UnsupportedFieldTypeError{Field: field, Type: typ}
}

// UnsupportedParameterError is returned when the parameter of a collection type is not
// an entity.
type UnsupportedParameterError struct {
	Field     string
	Parameter string
}

// Error returns the error string.
func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("modelgen: Unsupported parameter type '%s'. Supporting only entity type for generic for field '%s'",
		e.Parameter, e.Field)
}

// Is reports whether the target matches ErrUnsupportedType.
func (e *UnsupportedParameterError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewUnsupportedParameterError returns a new UnsupportedParameterError.
func NewUnsupportedParameterError(field, parameter string) *UnsupportedParameterError {
	return &UnsupportedParameterError{Field: field, Parameter: parameter}
}

// IsUnsupportedType returns true if the error is an UnsupportedFieldTypeError or an
// UnsupportedParameterError.
func IsUnsupportedType(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

// IllegalBodyError is returned when a body is set on a method that must not have one.
type IllegalBodyError struct {
	Method    string
	Interface bool // owner class is an interface
}

// Error returns the error string.
func (e *IllegalBodyError) Error() string {
	if e.Interface {
		return fmt.Sprintf("modelgen: Interface method cannot have a body (method %s)", e.Method)
	}
	return fmt.Sprintf("modelgen: Abstract method cannot have a body (method %s)", e.Method)
}

// Is reports whether the target matches ErrIllegalBody.
func (e *IllegalBodyError) Is(target error) bool {
	return target == ErrIllegalBody
}

// NewIllegalBodyError returns a new IllegalBodyError.
func NewIllegalBodyError(method string, iface bool) *IllegalBodyError {
	return &IllegalBodyError{Method: method, Interface: iface}
}

// IsIllegalBody returns true if the error is an IllegalBodyError.
func IsIllegalBody(err error) bool {
	if err == nil {
		return false
	}
	var e *IllegalBodyError
	return errors.As(err, &e) || errors.Is(err, ErrIllegalBody)
}

// DuplicateSuperclassError is returned when a class model gets a second superclass.
type DuplicateSuperclassError struct {
	Current string
}

// Error returns the error string.
func (e *DuplicateSuperclassError) Error() string {
	return fmt.Sprintf("modelgen: Super class already defined as %s", e.Current)
}

// Is reports whether the target matches ErrDuplicateSuperclass.
func (e *DuplicateSuperclassError) Is(target error) bool {
	return target == ErrDuplicateSuperclass
}

// NewDuplicateSuperclassError returns a new DuplicateSuperclassError.
func NewDuplicateSuperclassError(current string) *DuplicateSuperclassError {
	return &DuplicateSuperclassError{Current: current}
}

// IsDuplicateSuperclass returns true if the error is a DuplicateSuperclassError.
func IsDuplicateSuperclass(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateSuperclassError
	return errors.As(err, &e) || errors.Is(err, ErrDuplicateSuperclass)
}

// InvalidNameError is returned when a field, method or parameter name is not an
// identifier.
type InvalidNameError struct {
	Name string
}

// Error returns the error string.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("modelgen: Name is invalid: '%s'", e.Name)
}

// Is reports whether the target matches ErrInvalidName.
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// NewInvalidNameError returns a new InvalidNameError.
func NewInvalidNameError(name string) *InvalidNameError {
	return &InvalidNameError{Name: name}
}

// IsInvalidName returns true if the error is an InvalidNameError.
func IsInvalidName(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidNameError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidName)
}

// FieldNotClassifiedError is returned when classification info is requested for a
// field the relation engine has not classified.
type FieldNotClassifiedError struct {
	Field string
}

// Error returns the error string.
func (e *FieldNotClassifiedError) Error() string {
	return fmt.Sprintf("modelgen: Field not found: %s", e.Field)
}

// Is reports whether the target matches ErrFieldNotClassified.
func (e *FieldNotClassifiedError) Is(target error) bool {
	return target == ErrFieldNotClassified
}

// NewFieldNotClassifiedError returns a new FieldNotClassifiedError.
func NewFieldNotClassifiedError(field string) *FieldNotClassifiedError {
	return &FieldNotClassifiedError{Field: field}
}

// IsFieldNotClassified returns true if the error is a FieldNotClassifiedError.
func IsFieldNotClassified(err error) bool {
	if err == nil {
		return false
	}
	var e *FieldNotClassifiedError
	return errors.As(err, &e) || errors.Is(err, ErrFieldNotClassified)
}

// MissingMaxLengthError is returned when a String field declares no max length.
type MissingMaxLengthError struct {
	Entity string
	Field  string
}

// Error returns the error string.
func (e *MissingMaxLengthError) Error() string {
	return fmt.Sprintf("modelgen: String field '%s.%s' must contain 'max' property", e.Entity, e.Field)
}

// Is reports whether the target matches ErrMissingMaxLength.
func (e *MissingMaxLengthError) Is(target error) bool {
	return target == ErrMissingMaxLength
}

// NewMissingMaxLengthError returns a new MissingMaxLengthError.
func NewMissingMaxLengthError(entity, field string) *MissingMaxLengthError {
	return &MissingMaxLengthError{Entity: entity, Field: field}
}

// MissingPrimaryKeyError is returned when a relation needs the primary field of an
// entity that declares none.
type MissingPrimaryKeyError struct {
	Entity string
}

// Error returns the error string.
func (e *MissingPrimaryKeyError) Error() string {
	return fmt.Sprintf("modelgen: entity '%s' has no primary field", e.Entity)
}

// Is reports whether the target matches ErrMissingPrimaryKey.
func (e *MissingPrimaryKeyError) Is(target error) bool {
	return target == ErrMissingPrimaryKey
}

// NewMissingPrimaryKeyError returns a new MissingPrimaryKeyError.
func NewMissingPrimaryKeyError(entity string) *MissingPrimaryKeyError {
	return &MissingPrimaryKeyError{Entity: entity}
}
