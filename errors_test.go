package modelgen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/modelgen"
)

func TestUnresolvedTypeError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := modelgen.NewUnresolvedTypeError("Foo<Bar>")
		assert.Equal(t, "modelgen: Type cannot be resolved: 'Foo<Bar>'", err.Error())
	})

	t.Run("IsUnresolvedType", func(t *testing.T) {
		err := modelgen.NewUnresolvedTypeError("Foo")
		assert.True(t, errors.Is(err, modelgen.ErrUnresolvedType))
		assert.True(t, modelgen.IsUnresolvedType(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, modelgen.IsUnresolvedType(modelgen.ErrUnresolvedType))
		assert.False(t, modelgen.IsUnresolvedType(errors.New("other error")))
		assert.False(t, modelgen.IsUnresolvedType(nil))
	})
}

func TestAmbiguousRelationError(t *testing.T) {
	err := modelgen.NewAmbiguousRelationError("Order.customer", "Customer", []string{"orders", "favorites"})
	assert.Equal(t, "modelgen: Found several fields {orders, favorites} in target entity 'Customer'. Expected only one.", err.Error())
	assert.True(t, modelgen.IsAmbiguousRelation(fmt.Errorf("classify: %w", err)))
	assert.False(t, modelgen.IsMissingRelation(err))
}

func TestRelationHintErrors(t *testing.T) {
	allowed := []string{"OneToOne", "ManyToOne"}

	t.Run("Missing", func(t *testing.T) {
		err := modelgen.NewMissingRelationError("Order.user", allowed)
		assert.Equal(t, "modelgen: Relation for field 'Order.user' must be specified. Allowed types: [OneToOne ManyToOne]", err.Error())
		assert.True(t, modelgen.IsMissingRelation(err))
		assert.False(t, modelgen.IsInvalidRelation(err))
	})

	t.Run("Invalid", func(t *testing.T) {
		err := modelgen.NewInvalidRelationError("Order.user", "ManyToMany", allowed)
		assert.Equal(t, "modelgen: Invalid relation 'ManyToMany' for field 'Order.user'. Expected: [OneToOne ManyToOne]", err.Error())
		assert.True(t, modelgen.IsInvalidRelation(err))
	})
}

func TestUnsupportedTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{
			name: "field",
			err:  modelgen.NewUnsupportedFieldTypeError("User.home", "java.util.List"),
			msg:  "modelgen: Unsupported field type 'java.util.List' for field 'User.home'",
		},
		{
			name: "parameter",
			err:  modelgen.NewUnsupportedParameterError("User.tags", "String"),
			msg:  "modelgen: Unsupported parameter type 'String'. Supporting only entity type for generic for field 'User.tags'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.True(t, modelgen.IsUnsupportedType(tt.err))
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	t.Run("IllegalBody", func(t *testing.T) {
		abstract := modelgen.NewIllegalBodyError("run", false)
		assert.Contains(t, abstract.Error(), "Abstract method cannot have a body")
		iface := modelgen.NewIllegalBodyError("run", true)
		assert.Contains(t, iface.Error(), "Interface method cannot have a body")
		assert.True(t, modelgen.IsIllegalBody(iface))
	})

	t.Run("DuplicateSuperclass", func(t *testing.T) {
		err := modelgen.NewDuplicateSuperclassError("BaseEntity")
		assert.Equal(t, "modelgen: Super class already defined as BaseEntity", err.Error())
		assert.True(t, modelgen.IsDuplicateSuperclass(err))
	})

	t.Run("InvalidName", func(t *testing.T) {
		err := modelgen.NewInvalidNameError("1abc")
		assert.Equal(t, "modelgen: Name is invalid: '1abc'", err.Error())
		assert.True(t, modelgen.IsInvalidName(err))
	})
}

func TestFieldNotClassifiedError(t *testing.T) {
	err := modelgen.NewFieldNotClassifiedError("User.name")
	assert.Equal(t, "modelgen: Field not found: User.name", err.Error())
	assert.True(t, modelgen.IsFieldNotClassified(err))
	assert.True(t, errors.Is(err, modelgen.ErrFieldNotClassified))
}

func TestMissingMaxLengthError(t *testing.T) {
	err := modelgen.NewMissingMaxLengthError("User", "name")
	assert.Equal(t, "modelgen: String field 'User.name' must contain 'max' property", err.Error())
	assert.True(t, errors.Is(err, modelgen.ErrMissingMaxLength))
	assert.True(t, errors.Is(modelgen.NewMissingPrimaryKeyError("User"), modelgen.ErrMissingPrimaryKey))
}
