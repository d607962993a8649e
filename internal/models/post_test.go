package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOriginalPost(t *testing.T) {
	t.Run("requires content or image", func(t *testing.T) {
		_, err := NewOriginalPost(1, "", "")
		require.Error(t, err)
		appErr, ok := err.(*AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("whitespace content counts as empty", func(t *testing.T) {
		_, err := NewOriginalPost(1, "   ", "")
		assert.Error(t, err)
	})

	t.Run("image alone is enough", func(t *testing.T) {
		post, err := NewOriginalPost(1, "", "/uploads/pic.png")
		require.NoError(t, err)
		assert.Equal(t, PostTypeOriginal, post.Type)
		assert.Nil(t, post.OriginalPostID)
	})

	t.Run("content is trimmed", func(t *testing.T) {
		post, err := NewOriginalPost(1, "  hello  ", "")
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Content)
	})
}

func TestNewRepost(t *testing.T) {
	t.Run("requires a target", func(t *testing.T) {
		_, err := NewRepost(1, 0)
		assert.Error(t, err)
	})

	t.Run("carries no content", func(t *testing.T) {
		post, err := NewRepost(1, 42)
		require.NoError(t, err)
		assert.Equal(t, PostTypeRepost, post.Type)
		assert.Empty(t, post.Content)
		require.NotNil(t, post.OriginalPostID)
		assert.Equal(t, uint(42), *post.OriginalPostID)
	})
}

func TestNewQuote(t *testing.T) {
	t.Run("requires content", func(t *testing.T) {
		_, err := NewQuote(1, 42, " ")
		assert.Error(t, err)
	})

	t.Run("requires a target", func(t *testing.T) {
		_, err := NewQuote(1, 0, "take a look at this")
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		post, err := NewQuote(1, 42, "take a look at this")
		require.NoError(t, err)
		assert.Equal(t, PostTypeQuote, post.Type)
		require.NotNil(t, post.OriginalPostID)
		assert.Equal(t, uint(42), *post.OriginalPostID)
	})
}

func TestNewReply(t *testing.T) {
	t.Run("requires content", func(t *testing.T) {
		_, err := NewReply(1, 42, "")
		assert.Error(t, err)
	})

	t.Run("requires a target", func(t *testing.T) {
		_, err := NewReply(1, 0, "agreed")
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		post, err := NewReply(1, 42, "agreed")
		require.NoError(t, err)
		assert.Equal(t, PostTypeReply, post.Type)
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := NewInternalError(inner)
	assert.Equal(t, inner, err.Unwrap())
	assert.Contains(t, err.Error(), "Internal server error")
}
