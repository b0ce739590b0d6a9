package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikibook/internal/errors"
)

func TestConverterFunc(t *testing.T) {
	var gotFrom, gotTo string
	conv := ConverterFunc(func(_ context.Context, text, from, to string) (string, error) {
		gotFrom, gotTo = from, to
		return "<" + text + ">", nil
	})

	out, err := conv.Convert(context.Background(), "body", FormatMediaWiki, FormatLaTeX)
	require.NoError(t, err)
	assert.Equal(t, "<body>", out)
	assert.Equal(t, FormatMediaWiki, gotFrom)
	assert.Equal(t, FormatLaTeX, gotTo)
}

func TestNewPandoc_MissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewPandoc("")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConvert))
}

func TestNewPandoc_OverridePath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewPandoc("/nonexistent/pandoc")
	require.Error(t, err)
}
