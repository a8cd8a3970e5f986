package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NotFound("Ingredient", 5), "NOT_FOUND"},
		{fmt.Errorf("merge: %w", &DuplicateKeyError{Name: "step", Key: 2}), "DUPLICATE_KEY"},
		{Business("city is required"), "BUSINESS_ERROR"},
		{UnsupportedValue("serving unit", "xx"), "UNSUPPORTED_VALUE"},
		{Conflict("Food", "name", "Pad Thai"), "CONFLICT"},
		{errors.New("disk on fire"), "INTERNAL"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Code(tc.err), tc.err.Error())
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("update recipe: %w", NotFound("Ingredient", 42))
	assert.Equal(t, "Ingredient not found with id: 42", Message(err))

	dup := fmt.Errorf("merge: %w", &DuplicateKeyError{Name: "ingredient_id", Key: int64(3)})
	assert.Equal(t, "duplicate ingredient_id 3 in request", Message(dup))

	assert.Equal(t, "an unexpected error occurred", Message(errors.New("sql: connection refused")))
}
