package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/params"
)

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	queries := []string{
		"a[b][]=1&a[b][]=2&a[c]=x",
		"z=last&a[]=3&a[]=1&a[]=2",
		"flag&name=Ann+Lee",
		"a[][x]=1&a[][y][]=2&a[][y][]=1",
		"deep[a][b][c][d]=v",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			tree, err := params.ParseQuery(q)
			require.NoError(t, err)

			encoded, err := params.Encode(tree)
			require.NoError(t, err)

			again, err := params.ParseQuery(encoded)
			require.NoError(t, err)
			assert.Equal(t, tree, again)
		})
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	pairs, err := params.Flatten(params.Tree{
		"a": map[string]any{"c": "x", "b": []any{"1", "2"}},
		"f": true,
	})
	require.NoError(t, err)
	assert.Equal(t, []params.Pair{
		params.P("a[b][]", "1"),
		params.P("a[b][]", "2"),
		params.P("a[c]", "x"),
		params.Flag("f"),
	}, pairs)

	t.Run("list of maps has no flat form", func(t *testing.T) {
		_, err := params.Flatten(params.Tree{"a": []any{map[string]any{"x": "1"}}})
		assert.ErrorIs(t, err, params.ErrMalformed)
	})

	t.Run("bracket in key", func(t *testing.T) {
		_, err := params.Flatten(params.Tree{"a[": "1"})
		assert.ErrorIs(t, err, params.ErrMalformed)
	})
}
