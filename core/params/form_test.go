package params_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/params"
)

func TestParseForm(t *testing.T) {
	t.Parallel()

	t.Run("urlencoded keeps order", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("b=2&a=1&l[]=x&l[]=y"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		form, err := params.ParseForm(r, 0)
		require.NoError(t, err)
		assert.Equal(t, []params.Pair{
			params.P("b", "2"),
			params.P("a", "1"),
			params.P("l[]", "x"),
			params.P("l[]", "y"),
		}, form.Pairs)
	})

	t.Run("multipart with file", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("title", "hello"))
		fw, err := mw.CreateFormFile("doc", "notes.txt")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("file body"))
		require.NoError(t, mw.WriteField("tags[]", "a"))
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/", &body)
		r.Header.Set("Content-Type", mw.FormDataContentType())

		form, err := params.ParseForm(r, 0)
		require.NoError(t, err)
		assert.Equal(t, []params.Pair{
			params.P("title", "hello"),
			params.P("doc", "notes.txt"),
			params.P("tags[]", "a"),
		}, form.Pairs)
		require.Len(t, form.Uploads, 1)
		assert.Equal(t, "doc", form.Uploads[0].Field)
		assert.Equal(t, []byte("file body"), form.Uploads[0].Data)
	})

	t.Run("no body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		form, err := params.ParseForm(r, 0)
		require.NoError(t, err)
		assert.Empty(t, form.Pairs)
	})

	t.Run("unsupported media type", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")
		_, err := params.ParseForm(r, 0)
		assert.ErrorIs(t, err, params.ErrUnsupportedMediaType)
	})

	t.Run("missing boundary", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
		r.Header.Set("Content-Type", "multipart/form-data")
		_, err := params.ParseForm(r, 0)
		assert.ErrorIs(t, err, params.ErrFailedToParseForm)
	})

	t.Run("body over limit", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=0123456789"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		_, err := params.ParseForm(r, 4)
		assert.ErrorIs(t, err, params.ErrFailedToParseForm)
	})
}
