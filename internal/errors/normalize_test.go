package errors_test

import (
	"errors"
	"testing"

	domainerrors "github.com/cardmakerapp/cardmaker-go/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestNormalize_Error(t *testing.T) {
	err := errors.New("boom")
	got := domainerrors.Normalize(err)
	assert.Equal(t, "boom", got.Message)
}

func TestNormalize_String(t *testing.T) {
	got := domainerrors.Normalize("something went wrong")
	assert.Equal(t, "something went wrong", got.Message)
}

func TestNormalize_ErrorWithMessagePassthrough(t *testing.T) {
	in := &domainerrors.ErrorWithMessage{Message: "kept"}
	got := domainerrors.Normalize(in)
	assert.Same(t, in, got)
}

func TestNormalize_PlainStruct(t *testing.T) {
	got := domainerrors.Normalize(struct {
		Code int `json:"code"`
	}{Code: 42})
	assert.NotEmpty(t, got.Message)
	assert.Contains(t, got.Message, "42")
}

func TestNormalize_CyclicValue(t *testing.T) {
	type node struct {
		Name string `json:"name"`
		Next *node  `json:"next"`
	}
	n := &node{Name: "self"}
	n.Next = n

	// JSON serialization fails on the cycle; the generic fallback must
	// still produce a message.
	got := domainerrors.Normalize(n)
	assert.NotEmpty(t, got.Message)
}

func TestNormalize_Nil(t *testing.T) {
	got := domainerrors.Normalize(nil)
	assert.NotEmpty(t, got.Message)
}

func TestNormalize_EmptyString(t *testing.T) {
	got := domainerrors.Normalize("")
	assert.NotEmpty(t, got.Message)
}
