package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageNamesColumn(t *testing.T) {
	err := NewTypeError("sum", "city", "reducer requires a numeric column, got str32")
	assert.Equal(t, "sum: column 'city': reducer requires a numeric column, got str32", err.Error())
}

func TestErrorMessageWithoutColumn(t *testing.T) {
	err := NewShapeError("Cbind", "row count mismatch: 3 vs 5")
	assert.Equal(t, "Cbind: row count mismatch: 3 vs 5", err.Error())
}

func TestIsKind(t *testing.T) {
	typeErr := NewTypeError("median", "tag", "not numeric")
	assert.True(t, IsKind(typeErr, KindType))
	assert.False(t, IsKind(typeErr, KindValue))

	wrapped := fmt.Errorf("outer: %w", NewCancelledError("GroupBy"))
	assert.True(t, IsKind(wrapped, KindCancelled))

	assert.False(t, IsKind(errors.New("plain"), KindType))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError("save", "writing footer: %v", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save: writing footer: disk full", err.Error())
	assert.True(t, IsKind(err, KindIO))

	plain := NewIOError("open", "not a frame snapshot")
	assert.Nil(t, plain.Unwrap())
}

func TestIsMatchesByKind(t *testing.T) {
	err := NewValueError("SetKey", "id", "duplicate key values")
	assert.ErrorIs(t, err, &Error{Kind: KindValue})
	assert.NotErrorIs(t, err, &Error{Kind: KindShape})
	assert.ErrorIs(t, err, &Error{Kind: KindValue, Op: "SetKey"})
	assert.NotErrorIs(t, err, &Error{Kind: KindValue, Op: "Rbind"})
}
