package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2012_vol3_7", Coordinate{Year: 2012, Volume: 3, Page: 7}.Name())
	assert.Equal(t, "2023_4", Coordinate{Year: 2023, Page: 4}.Name())
}

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	c, err := ParseCoordinate("2012:3:7")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Year: 2012, Volume: 3, Page: 7}, c)

	c, err = ParseCoordinate("2023:4")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Year: 2023, Page: 4}, c)

	_, err = ParseCoordinate("2012")
	assert.Error(t, err)
	_, err = ParseCoordinate("2012:x")
	assert.Error(t, err)
}

func TestParseCoordinateNameRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range []Coordinate{{Year: 2012, Volume: 9, Page: 20}, {Year: 2024, Page: 1}} {
		parsed, err := ParseCoordinateName(c.Name())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCoordinateName("2012_v3_1")
	assert.Error(t, err)
}

func TestArticleRecordTags(t *testing.T) {
	t.Parallel()

	rec := ArticleRecord{ID: "10.1038/s1", Subjects: []string{"Ecology", "Evolution"}}
	assert.Equal(t, []SubjectTag{
		{ParentID: "10.1038/s1", Tag: "Ecology"},
		{ParentID: "10.1038/s1", Tag: "Evolution"},
	}, rec.Tags())
	assert.Empty(t, ArticleRecord{ID: "x"}.Tags())
}
