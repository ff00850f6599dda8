package storage

import (
	"fmt"
	"sort"
	"sync"
)

// Repository 스토리지 저장소 (uid로 조회)
type Repository struct {
	mu       sync.RWMutex
	storages map[int]*Storage
}

// NewRepository 새 저장소 생성
func NewRepository(storages ...*Storage) *Repository {
	r := &Repository{storages: make(map[int]*Storage, len(storages))}
	for _, s := range storages {
		r.storages[s.UID()] = s
	}
	return r
}

// Add registers a storage, replacing any storage with the same uid
func (r *Repository) Add(s *Storage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storages[s.UID()] = s
}

// FindByUID returns the storage with the given uid
func (r *Repository) FindByUID(uid int) (*Storage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.storages[uid]
	if !ok {
		return nil, fmt.Errorf("%w: uid %d", ErrStorageNotFound, uid)
	}
	return s, nil
}

// All returns every registered storage ordered by uid
func (r *Repository) All() []*Storage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*Storage, 0, len(r.storages))
	for _, s := range r.storages {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UID() < list[j].UID() })
	return list
}
