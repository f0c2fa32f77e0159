package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/infrastructure/checkpoint"
)

func seed(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	store := checkpoint.NewStore(root)

	for _, c := range []domain.Coordinate{{Year: 2012, Volume: 1, Page: 2}, {Year: 2012, Volume: 1, Page: 1}, {Year: 2013, Page: 1}} {
		_, err := store.WriteScores(c, []domain.ScoreRecord{{ID: "10.1/" + c.Name(), FleschKincaid: 10, Words: 600, Date: "d"}})
		require.NoError(t, err)
		_, err = store.WriteArticles(c, []domain.ArticleRecord{{ID: "10.1/" + c.Name(), Subjects: []string{"Ecology"}}})
		require.NoError(t, err)
	}
	return root
}

func TestPattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "articles_*/scores_*.csv", Pattern("scores", nil))
	assert.Equal(t, "articles_2012/subjects_*.csv", Pattern("subjects", []int{2012}))
	assert.Equal(t, "articles_{2012,2013}/scores_*.csv", Pattern("scores", []int{2012, 2013}))
}

func TestAggregateKeepsOneHeader(t *testing.T) {
	t.Parallel()

	root := seed(t)
	summaries, err := New(nil).Aggregate(context.Background(), Request{Root: root, Sort: true})
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, Summary{Kind: "scores", Output: filepath.Join(root, ScoresFile), Files: 3, Rows: 3}, summaries[0])
	assert.Equal(t, Summary{Kind: "subjects", Output: filepath.Join(root, SubjectsFile), Files: 3, Rows: 3}, summaries[1])

	data, err := os.ReadFile(filepath.Join(root, ScoresFile))
	require.NoError(t, err)
	assert.Equal(t,
		"doi\tfk_idx\tcole_idx\tflesch_ease\tsmog_idx\tari_idx\twords\tdate\n"+
			"10.1/2012_vol1_1\t10\t0\t0\t0\t0\t600\td\n"+
			"10.1/2012_vol1_2\t10\t0\t0\t0\t0\t600\td\n"+
			"10.1/2013_1\t10\t0\t0\t0\t0\t600\td\n",
		string(data))

	subjects, err := os.ReadFile(filepath.Join(root, SubjectsFile))
	require.NoError(t, err)
	assert.Equal(t, "doi,subject\n10.1/2012_vol1_1,Ecology\n10.1/2012_vol1_2,Ecology\n10.1/2013_1,Ecology\n", string(subjects))
}

func TestAggregateSelectedYears(t *testing.T) {
	t.Parallel()

	root := seed(t)
	summaries, err := New(nil).Aggregate(context.Background(), Request{Root: root, Years: []int{2013}, Sort: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summaries[0].Files)
	assert.Equal(t, 1, summaries[0].Rows)
}

func TestAggregateHeaderMismatch(t *testing.T) {
	t.Parallel()

	root := seed(t)
	require.NoError(t, checkpoint.WriteTable(filepath.Join(root, "articles_2013", "scores_2013_9.csv"), checkpoint.Tab, []string{"doi", "other"}, nil))

	_, err := New(nil).Aggregate(context.Background(), Request{Root: root, Sort: true})
	assert.Error(t, err)
}

func TestAggregateNoFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	summaries, err := New(nil).Aggregate(context.Background(), Request{Root: root})
	require.NoError(t, err)
	assert.Zero(t, summaries[0].Files)

	_, err = os.Stat(filepath.Join(root, ScoresFile))
	assert.True(t, os.IsNotExist(err))
}

func TestAggregateEmptyFilesWriteNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "articles_2012"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "articles_2012", "scores_2012_1.csv"), nil, 0o644))

	summaries, err := New(nil).Aggregate(context.Background(), Request{Root: root, Sort: true})
	require.NoError(t, err)
	assert.Equal(t, Summary{Kind: "scores", Output: filepath.Join(root, ScoresFile), Files: 1}, summaries[0])
	assert.NoFileExists(t, filepath.Join(root, ScoresFile))
}
