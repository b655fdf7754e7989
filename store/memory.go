package store

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"videohub-service/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps videos and users in process. It backs STORE_DRIVER=memory
// and the package tests of the layers above the store.
type MemoryStore struct {
	mu     sync.RWMutex
	videos map[string]model.Video
	users  map[string]model.User
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		videos: make(map[string]model.Video),
		users:  make(map[string]model.User),
		now:    time.Now,
	}
}

// Users exposes the user side of the store.
func (m *MemoryStore) Users() UserStore {
	return memoryUsers{m}
}

// PutUser stores or replaces a user record.
func (m *MemoryStore) PutUser(user model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.SubscribedUsers = append([]string(nil), user.SubscribedUsers...)
	m.users[user.ID.Hex()] = user
}

func (m *MemoryStore) Insert(_ context.Context, video *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	m.videos[video.ID.Hex()] = cloneVideo(*video)
	return nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	v = cloneVideo(v)
	return &v, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, update model.VideoUpdate) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&v)
	v.UpdatedAt = m.now().UTC().Truncate(time.Millisecond)
	m.videos[id] = v
	v = cloneVideo(v)
	return &v, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return ErrNotFound
	}
	delete(m.videos, id)
	return nil
}

func (m *MemoryStore) IncrementViews(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.Views++
	m.videos[id] = v
	return nil
}

func (m *MemoryStore) Sample(_ context.Context, size int) ([]model.Video, error) {
	all := m.snapshot()
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > size {
		all = all[:size]
	}
	return all, nil
}

func (m *MemoryStore) ListByViews(_ context.Context) ([]model.Video, error) {
	all := m.snapshot()
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Views != all[j].Views {
			return all[i].Views > all[j].Views
		}
		return all[i].ID.Hex() < all[j].ID.Hex()
	})
	return all, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, userID string) ([]model.Video, error) {
	return m.filter(0, func(v model.Video) bool { return v.UserID == userID }), nil
}

func (m *MemoryStore) FindByTags(_ context.Context, tags []string, limit int) ([]model.Video, error) {
	wanted := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		wanted[t] = struct{}{}
	}
	return m.filter(limit, func(v model.Video) bool {
		for _, t := range v.Tags {
			if _, ok := wanted[t]; ok {
				return true
			}
		}
		return false
	}), nil
}

func (m *MemoryStore) Search(_ context.Context, query string, limit int) ([]model.Video, error) {
	q := strings.ToLower(query)
	return m.filter(limit, func(v model.Video) bool {
		if strings.Contains(strings.ToLower(v.Title), q) || strings.Contains(strings.ToLower(v.Description), q) {
			return true
		}
		for _, t := range v.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
		return false
	}), nil
}

// snapshot returns copies of all videos in insertion-independent id order.
func (m *MemoryStore) snapshot() []model.Video {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]model.Video, 0, len(m.videos))
	for _, v := range m.videos {
		all = append(all, cloneVideo(v))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return all
}

func (m *MemoryStore) filter(limit int, keep func(model.Video) bool) []model.Video {
	out := []model.Video{}
	for _, v := range m.snapshot() {
		if !keep(v) {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

type memoryUsers struct {
	m *MemoryStore
}

func (u memoryUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	u.m.mu.RLock()
	defer u.m.mu.RUnlock()
	user, ok := u.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.SubscribedUsers = append([]string(nil), user.SubscribedUsers...)
	return &user, nil
}

func cloneVideo(v model.Video) model.Video {
	if v.Tags != nil {
		v.Tags = append([]string{}, v.Tags...)
	}
	return v
}
