package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"solarcoin-analytics/internal/model"

	"github.com/google/uuid"
)

// ErrDatasetNotFound is returned when a dataset id has no entry, either
// because it never existed or because it was replaced/removed.
var ErrDatasetNotFound = errors.New("dataset not found")

// Dataset is one uploaded transaction set. Transactions are immutable once
// stored; a new upload creates a new dataset rather than mutating this one.
type Dataset struct {
	ID           string
	Name         string
	UploadedAt   time.Time
	Transactions []model.Transaction
}

// Store holds uploaded datasets in memory for the lifetime of the process.
// Aggregations read the stored slice without copying, which is safe because
// nothing writes into a dataset after Put.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

func New() *Store {
	return &Store{datasets: make(map[string]*Dataset)}
}

// Put registers a new dataset and returns its generated id.
func (s *Store) Put(name string, txs []model.Transaction) *Dataset {
	d := &Dataset{
		ID:           uuid.NewString(),
		Name:         name,
		UploadedAt:   time.Now().UTC(),
		Transactions: txs,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[d.ID] = d
	return d
}

// Get returns the dataset for id.
func (s *Store) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return d, nil
}

// List returns all datasets, most recent upload first.
func (s *Store) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes a dataset. Deleting an unknown id reports ErrDatasetNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.datasets, id)
	return nil
}
