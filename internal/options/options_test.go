package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type limits struct {
	maxElements int
	adapter     string
}

func withMaxElements(n int) Option[*limits] {
	return New(func(l *limits) error {
		if n < 0 {
			return errors.New("max elements cannot be negative")
		}
		l.maxElements = n
		return nil
	})
}

func withAdapter(name string) Option[*limits] {
	return NoError(func(l *limits) {
		l.adapter = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		l := &limits{}
		err := Apply(l, withMaxElements(10), withAdapter("ndarray"), withMaxElements(20))
		require.NoError(t, err)
		require.Equal(t, 20, l.maxElements)
		require.Equal(t, "ndarray", l.adapter)
	})

	t.Run("stops at first error", func(t *testing.T) {
		l := &limits{}
		err := Apply(l, withMaxElements(5), withMaxElements(-1), withAdapter("rawview"))
		require.ErrorContains(t, err, "cannot be negative")
		require.Equal(t, 5, l.maxElements)
		require.Empty(t, l.adapter)
	})

	t.Run("skips nil options", func(t *testing.T) {
		l := &limits{}
		require.NoError(t, Apply(l, nil, withAdapter("x")))
		require.Equal(t, "x", l.adapter)
	})

	t.Run("no options", func(t *testing.T) {
		require.NoError(t, Apply(&limits{}))
	})
}
