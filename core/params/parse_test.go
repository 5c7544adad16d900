package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/params"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("nested lists and fields", func(t *testing.T) {
		tree, err := params.ParseQuery("a[b][]=1&a[b][]=2&a[c]=x")
		require.NoError(t, err)
		assert.Equal(t, params.Tree{
			"a": map[string]any{
				"b": []any{"1", "2"},
				"c": "x",
			},
		}, tree)
	})

	t.Run("plain and valueless keys", func(t *testing.T) {
		tree, err := params.ParseQuery("name=Ann+Lee&flag&empty=")
		require.NoError(t, err)
		assert.Equal(t, params.Tree{"name": "Ann Lee", "flag": true, "empty": ""}, tree)
		assert.True(t, tree.Bool("flag"))
	})

	t.Run("list appends never collide", func(t *testing.T) {
		tree, err := params.ParseQuery("a[]=1&a[]=2")
		require.NoError(t, err)
		assert.Equal(t, params.Tree{"a": []any{"1", "2"}}, tree)
	})

	t.Run("empty intermediate segment is a map key", func(t *testing.T) {
		tree, err := params.ParseQuery("a[][x]=1&a[][y]=2")
		require.NoError(t, err)
		assert.Equal(t, params.Tree{"a": map[string]any{"": map[string]any{"x": "1", "y": "2"}}}, tree)
	})

	t.Run("text after the last bracket is ignored", func(t *testing.T) {
		tree, err := params.ParseQuery("a[b]c=1")
		require.NoError(t, err)
		assert.Equal(t, params.Tree{"a": map[string]any{"b": "1"}}, tree)
	})

	t.Run("empty input", func(t *testing.T) {
		tree, err := params.ParseQuery("")
		require.NoError(t, err)
		assert.Empty(t, tree)
	})
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		wantErr error
		message string
	}{
		{"field then nested map", "a[b]=1&a[b][c]=2", params.ErrTypeConflict, "type conflict on query key a, subkey b"},
		{"list then map", "a[]=1&a[b]=2", params.ErrTypeConflict, "type conflict on query key a"},
		{"map then list", "a[b]=1&a[]=2", params.ErrTypeConflict, "type conflict on query key a"},
		{"scalar then container", "a=1&a[b]=2", params.ErrTypeConflict, "type conflict on query key a"},
		{"nested list then map", "a[b][]=1&a[b][c]=2", params.ErrTypeConflict, "type conflict on query key a, subkey b"},
		{"terminal field twice", "a[b]=1&a[b]=2", params.ErrCollision, "collision on query key a, subkey b"},
		{"plain key twice", "a=1&a=2", params.ErrCollision, "collision on query key a"},
		{"container then plain", "a[b]=1&a=2", params.ErrCollision, "collision on query key a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := params.ParseQuery(tt.query)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.message)

			var perr *params.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "a", perr.Key)
		})
	}
}

func TestSplitKey(t *testing.T) {
	t.Parallel()

	base, subs := params.SplitKey("user[address][city]")
	assert.Equal(t, "user", base)
	assert.Equal(t, []string{"address", "city"}, subs)

	base, subs = params.SplitKey("tags[]")
	assert.Equal(t, "tags", base)
	assert.Equal(t, []string{""}, subs)

	base, subs = params.SplitKey("plain")
	assert.Equal(t, "plain", base)
	assert.Nil(t, subs)
}

func TestSplitQuery(t *testing.T) {
	t.Parallel()

	pairs, err := params.SplitQuery("a=1&&b&c=x%3Dy=z&d%5B%5D=%20")
	require.NoError(t, err)
	assert.Equal(t, []params.Pair{
		params.P("a", "1"),
		params.Flag("b"),
		params.P("c", "x=y=z"),
		params.P("d[]", " "),
	}, pairs)

	_, err = params.SplitQuery("a=%zz")
	assert.ErrorIs(t, err, params.ErrMalformed)
}

func TestCheckReserved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"ordinary keys", "id=1&action=edit", true},
		{"prefixed field", "p_id=1", false},
		{"prefix alone", "p_", false},
		{"prefixed action", "p_action=save", false},
		{"prefixed bracket key", "p_user[name]=x", false},
		{"prefix inside key", "app_id=1", true},
		{"escaped prefix", "p%5Fid=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := params.SplitQuery(tt.query)
			require.NoError(t, err)

			err = params.CheckReserved(pairs, "p_")
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, params.ErrReservedKey)
		})
	}
}

func TestTree_Merge(t *testing.T) {
	t.Parallel()

	query := params.Tree{"id": "1", "action": "save"}
	form := params.Tree{"id": "2", "user": map[string]any{"name": "ann"}}

	require.NoError(t, query.Merge(form, "p_"))
	assert.Equal(t, params.Tree{
		"id":     "1",
		"action": "save",
		"p_id":   "2",
		"p_user": map[string]any{"name": "ann"},
	}, query)

	err := query.Merge(params.Tree{"id": "3"}, "p_")
	assert.ErrorIs(t, err, params.ErrCollision)
}

func TestTree_Accessors(t *testing.T) {
	t.Parallel()

	tree, err := params.ParseQuery("name=ann&tags[]=a&user[id]=7&flag")
	require.NoError(t, err)

	s, ok := tree.String("name")
	assert.True(t, ok)
	assert.Equal(t, "ann", s)

	l, ok := tree.List("tags")
	assert.True(t, ok)
	assert.Equal(t, []any{"a"}, l)

	m, ok := tree.Map("user")
	assert.True(t, ok)
	id, _ := m.String("id")
	assert.Equal(t, "7", id)

	assert.Equal(t, []string{"flag", "name", "tags", "user"}, tree.Keys())

	clone := tree.Clone()
	m["id"] = "8"
	cm, _ := clone.Map("user")
	assert.Equal(t, "7", cm["id"])

	assert.True(t, tree.Delete("flag"))
	assert.False(t, tree.Delete("flag"))
	assert.False(t, tree.Has("flag"))
}
