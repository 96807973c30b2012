package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"online-panthi/pkg/queue"
	"online-panthi/services/community/internal/entity"
	"online-panthi/services/community/internal/repo/persistent"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryPostRepo mirrors the gorm repository: transactions are serialised like row locks
// and roll back on error.
type memoryPostRepo struct {
	txMu         sync.Mutex
	mu           sync.Mutex
	posts        map[string]*entity.Post
	interactions map[entity.Interaction]int
	seq          int
	authorNames  map[string]string
	failAdjust   error
}

// errInvalidUUID is what Postgres raises for a non-uuid literal compared with a uuid column.
var errInvalidUUID = errors.New(`ERROR: invalid input syntax for type uuid (SQLSTATE 22P02)`)

func newMemoryPostRepo() *memoryPostRepo {
	return &memoryPostRepo{
		posts:        map[string]*entity.Post{},
		interactions: map[entity.Interaction]int{},
		authorNames:  map[string]string{},
	}
}

var _ persistent.PostRepository = (*memoryPostRepo)(nil)

func (r *memoryPostRepo) snapshot() (map[string]*entity.Post, map[entity.Interaction]int) {
	posts := make(map[string]*entity.Post, len(r.posts))
	for id, p := range r.posts {
		cp := *p
		posts[id] = &cp
	}
	interactions := make(map[entity.Interaction]int, len(r.interactions))
	for k, v := range r.interactions {
		interactions[k] = v
	}
	return posts, interactions
}

func (r *memoryPostRepo) Transaction(ctx context.Context, fn func(repo persistent.PostRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	posts, interactions := r.snapshot()
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.posts, r.interactions = posts, interactions
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memoryPostRepo) withName(p *entity.Post) *entity.Post {
	cp := *p
	if name, ok := r.authorNames[p.AuthorID]; ok {
		cp.AuthorName = &name
	}
	return &cp
}

func (r *memoryPostRepo) Create(ctx context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memoryPostRepo) sorted(keep func(*entity.Post) bool) []*entity.Post {
	out := []*entity.Post{}
	for _, p := range r.posts {
		if keep(p) {
			out = append(out, r.withName(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memoryPostRepo) List(ctx context.Context) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(*entity.Post) bool { return true }), nil
}

func (r *memoryPostRepo) ListSaved(ctx context.Context, userID string) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(p *entity.Post) bool {
		_, ok := r.interactions[entity.Interaction{UserID: userID, PostID: p.ID, Action: entity.ActionSave}]
		return ok
	}), nil
}

func (r *memoryPostRepo) LockByID(ctx context.Context, postID string) (*entity.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, errInvalidUUID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPostRepo) Delete(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.posts, postID)
	for k := range r.interactions {
		if k.PostID == postID {
			delete(r.interactions, k)
		}
	}
	return nil
}

func (r *memoryPostRepo) AddInteraction(ctx context.Context, userID, postID string, action entity.Action) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entity.Interaction{UserID: userID, PostID: postID, Action: action}
	if _, ok := r.interactions[key]; ok {
		return false, nil
	}
	r.seq++
	r.interactions[key] = r.seq
	return true, nil
}

func (r *memoryPostRepo) RemoveInteraction(ctx context.Context, userID, postID string, action entity.Action) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entity.Interaction{UserID: userID, PostID: postID, Action: action}
	if _, ok := r.interactions[key]; !ok {
		return false, nil
	}
	delete(r.interactions, key)
	return true, nil
}

func (r *memoryPostRepo) ListInteractions(ctx context.Context, userID string) ([]entity.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Interaction{}
	for k := range r.interactions {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.interactions[out[i]] < r.interactions[out[j]] })
	return out, nil
}

func (r *memoryPostRepo) AuthorStats(ctx context.Context, userID string) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts, likes := 0, 0
	for _, p := range r.posts {
		if p.AuthorID == userID {
			posts++
			likes += p.Likes
		}
	}
	return posts, likes, nil
}

func (r *memoryPostRepo) AdjustLikes(ctx context.Context, postID string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdjust != nil {
		return 0, r.failAdjust
	}
	p, ok := r.posts[postID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.Likes += delta
	if p.Likes < 0 {
		p.Likes = 0
	}
	return p.Likes, nil
}

func (r *memoryPostRepo) IncrementReports(ctx context.Context, postID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.Reports++
	return p.Reports, nil
}

func (r *memoryPostRepo) interactionCount(postID string, action entity.Action) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.interactions {
		if k.PostID == postID && k.Action == action {
			n++
		}
	}
	return n
}

type memoryFeedCache struct {
	posts       []*entity.Post
	cached      bool
	invalidated int
}

func (c *memoryFeedCache) Get(context.Context) ([]*entity.Post, bool) { return c.posts, c.cached }
func (c *memoryFeedCache) Set(_ context.Context, posts []*entity.Post) {
	c.posts, c.cached = posts, true
}
func (c *memoryFeedCache) Invalidate(context.Context) {
	c.posts, c.cached = nil, false
	c.invalidated++
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ModerationEvent
}

func (p *recordingPublisher) PublishModerationEvent(_ context.Context, event queue.ModerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(t queue.EventType) []queue.ModerationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []queue.ModerationEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
