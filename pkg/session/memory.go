package session

import (
	"context"
	"sync"
	"time"

	"github.com/oyaguma3/hr-portal/pkg/model"
)

// MemoryStorage は1オリジン分のプロセス内キーバリューストレージ。
// 複数のRepositoryで共有すると、同一オリジンの複数タブを表現できる。
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
}

type memorySlot struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStorage は空のMemoryStorageを生成する。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string]memorySlot)}
}

func (s *MemoryStorage) load(key string) (memorySlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[key]
	return slot, ok
}

func (s *MemoryStorage) store(key string, slot memorySlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = slot
}

func (s *MemoryStorage) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
}

// removeExpired はnow時点で期限切れのスロットだけを削除する。
// 判定と削除は同じロック内で行い、直前に書き込まれた新しい値は残す。
func (s *MemoryStorage) removeExpired(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok || !slot.expired(now) {
		return false
	}
	delete(s.slots, key)
	return true
}

func (s memorySlot) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// memoryRepository はMemoryStorage上のRepository実装。
type memoryRepository struct {
	storage *MemoryStorage
	opts    options
}

// NewMemoryRepository はMemoryStorageを使うRepositoryを生成する。
func NewMemoryRepository(storage *MemoryStorage, opts ...Option) Repository {
	return &memoryRepository{storage: storage, opts: buildOptions(opts)}
}

// Get はスロットの値を毎回ストレージから読み出す。
func (r *memoryRepository) Get(_ context.Context) (*model.Session, error) {
	slot, ok := r.storage.load(model.SessionSlot)
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := r.opts.now()
	if slot.expired(now) {
		r.storage.removeExpired(model.SessionSlot, now)
		return nil, ErrSessionNotFound
	}
	return &model.Session{Role: model.Role(slot.value), ExpiresAt: slot.expiresAt}, nil
}

// Set はスロットにロールを書き込む。
func (r *memoryRepository) Set(_ context.Context, role model.Role) error {
	slot := memorySlot{value: string(role)}
	if r.opts.ttl > 0 {
		slot.expiresAt = r.opts.now().Add(r.opts.ttl)
	}
	r.storage.store(model.SessionSlot, slot)
	return nil
}

// Clear はスロットを削除する。
func (r *memoryRepository) Clear(_ context.Context) error {
	r.storage.remove(model.SessionSlot)
	return nil
}
