package dataset

import (
	"log"
	"sync"
	"time"

	"github.com/vamsi260801-bit/nhfs/config"
	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// Store loads the dataset at most once and hands out the same pointer afterwards.
// A new process is required to pick up changes to the source.
type Store struct {
	load func() (*models.Dataset, error)

	once sync.Once
	ds   *models.Dataset
	err  error
}

func NewStore(load func() (*models.Dataset, error)) *Store {
	return &Store{load: load}
}

func (s *Store) Dataset() (*models.Dataset, error) {
	s.once.Do(func() {
		start := time.Now()
		s.ds, s.err = s.load()
		if s.err != nil {
			log.Printf("dataset load failed after %s: %v", time.Since(start), s.err)
			return
		}
		log.Printf("dataset %s loaded in %s: %d records, %d indicators",
			s.ds.Source, time.Since(start), len(s.ds.Records), len(s.ds.Indicators))
	})
	return s.ds, s.err
}

// FromConfig picks the SQL source when DB_DSN is set, the data file otherwise.
func FromConfig(cfg *config.Config) *Store {
	if cfg.DbDsn != "" {
		return NewStore(func() (*models.Dataset, error) {
			db, err := OpenSQL(cfg.DbDsn, cfg.DbDebug)
			if err != nil {
				return nil, err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			return LoadSQL(db, cfg.DbTable)
		})
	}
	var opts []Option
	if cfg.DataSheet != "" {
		opts = append(opts, WithSheet(cfg.DataSheet))
	}
	return NewStore(func() (*models.Dataset, error) {
		return Load(cfg.DataFile, opts...)
	})
}

var (
	store     *Store
	storeOnce sync.Once
)

// Get returns the process-wide store built from config.GetConfig().
func Get() *Store {
	storeOnce.Do(func() {
		store = FromConfig(config.GetConfig())
	})
	return store
}
