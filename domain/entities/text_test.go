package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextBuffer_Edit(t *testing.T) {
	b := NewTextBuffer("héllo")
	assert.True(t, b.IsMutable())
	assert.Equal(t, 5, b.Len())

	assert.Equal(t, 1, b.Insert(5, "!"))
	assert.Equal(t, 1, b.Insert(-3, ">"))
	assert.Equal(t, ">héllo!", b.String())

	require.NoError(t, b.Delete(2, 4))
	assert.Equal(t, ">hlo!", b.String())
	assert.Equal(t, String(">hlo!"), b.Var())
}

func TestTextBuffer_DeleteErrors(t *testing.T) {
	b := NewTextBuffer("abc")
	assert.Error(t, b.Delete(2, 1))
	assert.Error(t, b.Delete(1, 9))
	assert.NoError(t, b.Delete(1, 1))
	assert.Equal(t, "abc", b.String())
}

func TestTextBuffer_ReadOnly(t *testing.T) {
	b, err := TextBufferFromVar(String("fixed"), true)
	require.NoError(t, err)
	assert.False(t, b.IsMutable())
	assert.Zero(t, b.Insert(0, "x"))
	assert.NoError(t, b.Delete(0, 2))
	assert.Equal(t, "fixed", b.String())

	_, err = TextBufferFromVar(Int(1), false)
	assert.Error(t, err)

	empty, err := TextBufferFromVar(None(), false)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}
