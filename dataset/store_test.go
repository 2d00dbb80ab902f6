package dataset

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vamsi260801-bit/nhfs/config"
	"github.com/vamsi260801-bit/nhfs/domain/models"
)

func TestStoreLoadsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	store := NewStore(func() (*models.Dataset, error) {
		calls++
		return models.NewDataset("fixture", []string{"X"}, 3, nil), nil
	})

	var wg sync.WaitGroup
	results := make([]*models.Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := store.Dataset()
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestStoreMemoizesError(t *testing.T) {
	t.Parallel()

	calls := 0
	boom := errors.New("boom")
	store := NewStore(func() (*models.Dataset, error) {
		calls++
		return nil, boom
	})

	_, err := store.Dataset()
	assert.ErrorIs(t, err, boom)
	_, err = store.Dataset()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestFromConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nfhs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	store := FromConfig(&config.Config{DataFile: path})
	ds, err := store.Dataset()
	require.NoError(t, err)
	assert.Len(t, ds.Records, 3)

	again, err := store.Dataset()
	require.NoError(t, err)
	assert.Same(t, ds, again)
}

type fakeRows struct {
	columns []string
	rows    [][]sql.NullString
	pos     int
}

func (f *fakeRows) Columns() ([]string, error) { return f.columns, nil }

func (f *fakeRows) Next() bool {
	f.pos++
	return f.pos <= len(f.rows)
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	for i, v := range f.rows[f.pos-1] {
		*(dest[i].(*sql.NullString)) = v
	}
	return nil
}

func (f *fakeRows) Err() error { return nil }

func TestScanTable(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{
		columns: []string{"India/States/UTs", "Survey", "Area", "X"},
		rows: [][]sql.NullString{
			{{String: "Goa", Valid: true}, {String: "NFHS-5", Valid: true}, {String: "Total", Valid: true}, {String: "12.5", Valid: true}},
			{{String: "Goa", Valid: true}, {String: "NFHS-4", Valid: true}, {String: "Total", Valid: true}, {}},
		},
	}

	data, err := scanTable(rows)
	require.NoError(t, err)
	require.Len(t, data, 3)

	ds, err := Parse("db:nfhs", data)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.InDelta(t, 12.5, *ds.Records[0].Values[0], 1e-9)
	assert.Nil(t, ds.Records[1].Values[0])
}

func TestLoadSQLRejectsTableName(t *testing.T) {
	t.Parallel()

	_, err := LoadSQL(nil, "nfhs; DROP TABLE nfhs")
	assert.Error(t, err)
}
