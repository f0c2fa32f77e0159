package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JournalHarvester/internal/domain"
)

const articlePage = `<html><head><title>Empathy in the brain</title></head>
<script>{"contentInfo":{"authors":["Claus Lamm, Jane Roe"],"email":"claus.lamm@univie.ac.at"},
"datePublished":"2023-05-02T00:00:00Z","subjects":"Neuroscience;Psychology; ;Ecology"}</script></html>`

func natureSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: "title", Start: "<title>", End: "</title>"},
		{Name: "authors", Start: `"authors"`, End: `"`, Offset: 3},
		{Name: "email", Start: `"email":`, End: `"`, Offset: 1},
		{Name: "date", Start: "datePublished", End: `"`, Offset: 3},
		{Name: "subjects", Start: `"subjects":"`, End: `"`, Multi: true},
	}
}

func TestExtractAllFields(t *testing.T) {
	t.Parallel()

	ex, err := New(natureSpecs())
	require.NoError(t, err)

	fields, err := ex.Extract(articlePage)
	require.NoError(t, err)

	assert.Equal(t, "Empathy in the brain", fields.Get("title"))
	assert.Equal(t, "Claus Lamm, Jane Roe", fields.Get("authors"))
	assert.Equal(t, "claus.lamm@univie.ac.at", fields.Get("email"))
	assert.Equal(t, "2023-05-02T00:00:00Z", fields.Get("date"))
	assert.Equal(t, []string{"Neuroscience", "Psychology", "Ecology"}, fields.List("subjects"))
	assert.Empty(t, fields.Missing)
}

func TestExtractMissingStartIsEmpty(t *testing.T) {
	t.Parallel()

	ex, err := New([]FieldSpec{
		{Name: "title", Start: "<title>", End: "</title>"},
		{Name: "email", Start: `"email":`, End: `"`, Offset: 1},
	})
	require.NoError(t, err)

	fields, err := ex.Extract(`<title>Only a title</title>`)
	require.NoError(t, err)
	assert.Equal(t, "Only a title", fields.Get("title"))
	assert.Equal(t, "", fields.Get("email"))
	assert.Equal(t, []string{"email"}, fields.Missing)
}

func TestExtractMissingEndIsBoundaryError(t *testing.T) {
	t.Parallel()

	ex, err := New([]FieldSpec{
		{Name: "title", Start: "<title>", End: "</title>"},
		{Name: "date", Start: "datePublished", End: `"`, Offset: 3},
	})
	require.NoError(t, err)

	cases := []string{
		`<title>Broken`,
		`<title>ok</title> datePublished":"2023-01-01`,
		`<title>ok</title> datePublished`,
	}
	for _, text := range cases {
		fields, err := ex.Extract(text)
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, domain.ErrMissingBoundary))

		var be *BoundaryError
		require.True(t, errors.As(err, &be))
		assert.NotEmpty(t, be.Field)
		assert.Nil(t, fields.Values, "a failed record must not carry truncated values")
	}
}

func TestExtractStripTags(t *testing.T) {
	t.Parallel()

	ex, err := New([]FieldSpec{{Name: "title", Start: "<h1>", End: "</h1>", StripTags: true}})
	require.NoError(t, err)

	fields, err := ex.Extract(`<h1> <i>Cells</i> divide </h1>`)
	require.NoError(t, err)
	assert.Equal(t, "Cells divide", fields.Get("title"))
}

func TestNewRejectsInvalidSpecs(t *testing.T) {
	t.Parallel()

	_, err := New([]FieldSpec{{Name: "", Start: "a", End: "b"}})
	assert.Error(t, err)
	_, err = New([]FieldSpec{{Name: "x", Start: "a"}})
	assert.Error(t, err)
	_, err = New([]FieldSpec{{Name: "x", Start: "a", End: "b", Offset: -1}})
	assert.Error(t, err)
	_, err = New([]FieldSpec{{Name: "x", Start: "a", End: "b"}, {Name: "x", Start: "c", End: "d"}})
	assert.Error(t, err)
}

func TestSlice(t *testing.T) {
	t.Parallel()

	v, found, err := Slice(`key="value" tail`, `key=`, `"`, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", v)

	_, found, err = Slice(`nothing here`, `key=`, `"`, 1)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = Slice(`key=`, `key=`, `"`, 5)
	assert.True(t, found)
	assert.ErrorIs(t, err, domain.ErrMissingBoundary)
}

func TestAnchors(t *testing.T) {
	t.Parallel()

	listing := `<a href="/articles/s41467-023-0001-1">A</a>
<a href="/articles/s41467-023-0002-2">B</a>
<a href="/articles/s41467-023-0003`

	assert.Equal(t, []string{"41467-023-0001-1", "41467-023-0002-2"}, Anchors(listing, "/articles/s", `"`))
	assert.Empty(t, Anchors("<html>no results</html>", "/articles/s", `"`))
	assert.Nil(t, Anchors(listing, "", `"`))
}
