package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"online-panthi/pkg/jwt"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/models"
	"online-panthi/pkg/queue"
	"online-panthi/services/moderation/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "open-sesame"

const (
	postOne     = "0b6a3f5e-1c2d-4e8f-9a10-000000000001"
	postTwo     = "0b6a3f5e-1c2d-4e8f-9a10-000000000002"
	postThree   = "0b6a3f5e-1c2d-4e8f-9a10-000000000003"
	missingPost = "0b6a3f5e-1c2d-4e8f-9a10-0000000000ff"
)

// errInvalidUUID is what Postgres raises for a non-uuid literal compared with a uuid column.
var errInvalidUUID = errors.New(`ERROR: invalid input syntax for type uuid (SQLSTATE 22P02)`)

type memoryModerationRepo struct {
	mu           sync.Mutex
	posts        map[string]*models.Post
	interactions []models.PostInteraction
	messages     []*models.ContactMessage
}

func newMemoryModerationRepo(posts ...*models.Post) *memoryModerationRepo {
	r := &memoryModerationRepo{posts: map[string]*models.Post{}}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *memoryModerationRepo) GetReportedPosts(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.Reports > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reports > out[j].Reports })
	return out, nil
}

func (r *memoryModerationRepo) ResetReports(ctx context.Context, postID string) error {
	if _, err := uuid.Parse(postID); err != nil {
		return errInvalidUUID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Reports = 0
	kept := r.interactions[:0]
	for _, in := range r.interactions {
		if !(in.PostID == postID && in.Action == models.ActionReport) {
			kept = append(kept, in)
		}
	}
	r.interactions = kept
	return nil
}

func (r *memoryModerationRepo) DeletePost(ctx context.Context, postID string) (*models.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, errInvalidUUID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.posts, postID)
	return p, nil
}

func (r *memoryModerationRepo) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = "msg-" + time.Now().Format("150405.000000")
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *memoryModerationRepo) GetContactMessages(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ContactMessage, 0, len(r.messages))
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.messages[i])
	}
	return out, nil
}

var _ repository.ModerationRepository = (*memoryModerationRepo)(nil)

type recordingPublisher struct {
	events []queue.ModerationEvent
}

func (p *recordingPublisher) PublishModerationEvent(ctx context.Context, event queue.ModerationEvent) error {
	p.events = append(p.events, event)
	return nil
}

type recordingCache struct {
	deleted []string
}

func (c *recordingCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.deleted = append(c.deleted, keys...)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

type testEnv struct {
	router    *gin.Engine
	repo      *memoryModerationRepo
	publisher *recordingPublisher
	cache     *recordingCache
	jwt       *jwt.Service
}

func setupTestRouter(secret string, repo *memoryModerationRepo) *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		repo:      repo,
		publisher: &recordingPublisher{},
		cache:     &recordingCache{},
		jwt:       jwt.NewService("test-secret"),
	}
	handler := NewModerationHandler(repo, env.jwt, secret, env.publisher, env.cache, logger.New())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "admin-user")
		c.Next()
	})
	router.POST("/admin/unlock", handler.Unlock)
	router.GET("/admin/posts/reported", handler.GetReportedPosts)
	router.POST("/admin/posts/:id/reset-reports", handler.ResetReports)
	router.DELETE("/admin/posts/:id", handler.DeletePost)
	router.GET("/admin/feedback", handler.GetFeedback)
	router.POST("/contact", handler.SubmitContact)
	env.router = router
	return env
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)
	return w
}

func strPtr(s string) *string { return &s }

func TestUnlock_Success(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo())

	w := env.do("POST", "/admin/unlock", map[string]string{"passphrase": testSecret})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, jwt.RoleAdmin, resp.Role)

	claims, err := env.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin-user", claims.UserID)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestUnlock_WrongPassphrase(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo())

	w := env.do("POST", "/admin/unlock", map[string]string{"passphrase": "open-sesame!"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestUnlock_NotConfigured(t *testing.T) {
	env := setupTestRouter("", newMemoryModerationRepo())

	w := env.do("POST", "/admin/unlock", map[string]string{"passphrase": ""})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnlock_MissingPassphrase(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo())

	w := env.do("POST", "/admin/unlock", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReportedPosts_MostReportedFirst(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo(
		&models.Post{ID: postOne, Reports: 2},
		&models.Post{ID: postTwo, Reports: 0},
		&models.Post{ID: postThree, Reports: 7},
	))

	w := env.do("GET", "/admin/posts/reported", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Posts []models.Post `json:"posts"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, postThree, resp.Posts[0].ID)
	assert.Equal(t, postOne, resp.Posts[1].ID)
}

func TestResetReports(t *testing.T) {
	repo := newMemoryModerationRepo(&models.Post{ID: postOne, Reports: 3})
	repo.interactions = []models.PostInteraction{
		{UserID: "u1", PostID: postOne, Action: models.ActionReport},
		{UserID: "u1", PostID: postOne, Action: models.ActionLike},
		{UserID: "u2", PostID: postOne, Action: models.ActionReport},
	}
	env := setupTestRouter(testSecret, repo)

	w := env.do("POST", "/admin/posts/"+postOne+"/reset-reports", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, repo.posts[postOne].Reports)
	require.Len(t, repo.interactions, 1)
	assert.Equal(t, models.ActionLike, repo.interactions[0].Action)
	assert.Equal(t, []string{FeedCacheKey}, env.cache.deleted)
}

func TestResetReports_NotFound(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo())

	w := env.do("POST", "/admin/posts/"+missingPost+"/reset-reports", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.cache.deleted)
}

func TestDeletePost_PublishesRemoval(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo(
		&models.Post{ID: postOne, Reports: 4, ImageURL: strPtr("https://bucket.example.com/posts/one.png")},
	))

	w := env.do("DELETE", "/admin/posts/"+postOne, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, env.repo.posts, postOne)
	require.Len(t, env.publisher.events, 1)
	ev := env.publisher.events[0]
	assert.Equal(t, queue.EventPostRemoved, ev.Type)
	assert.Equal(t, postOne, ev.PostID)
	assert.Equal(t, "admin-user", ev.ActorID)
	assert.Equal(t, "https://bucket.example.com/posts/one.png", ev.ImageURL)
	assert.Equal(t, []string{FeedCacheKey}, env.cache.deleted)
}

func TestDeletePost_NotFound(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo())

	w := env.do("DELETE", "/admin/posts/"+missingPost, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.publisher.events)
}

func TestMalformedPostIDIsNotFound(t *testing.T) {
	repo := newMemoryModerationRepo(&models.Post{ID: postOne, Reports: 3})
	env := setupTestRouter(testSecret, repo)

	for _, req := range []struct{ method, path string }{
		{"POST", "/admin/posts/abc/reset-reports"},
		{"DELETE", "/admin/posts/abc"},
		{"DELETE", "/admin/posts/" + postOne + "x"},
	} {
		w := env.do(req.method, req.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
	}

	assert.Equal(t, 3, repo.posts[postOne].Reports)
	assert.Empty(t, env.publisher.events)
	assert.Empty(t, env.cache.deleted)
}

func TestSubmitContact_AndFeedback(t *testing.T) {
	env := setupTestRouter(testSecret, newMemoryModerationRepo())

	w := env.do("POST", "/contact", map[string]string{
		"name":    " Kamala ",
		"email":   "kamala@example.com",
		"subject": "Exam tips",
		"message": "Do you have past papers?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do("GET", "/admin/feedback", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Messages []models.ContactMessage `json:"messages"`
		Count    int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Kamala", resp.Messages[0].Name)
	assert.Equal(t, "Exam tips", resp.Messages[0].Subject)
}

func TestSubmitContact_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing message", map[string]string{"name": "A", "email": "a@example.com", "subject": "Hi"}},
		{"bad email", map[string]string{"name": "A", "email": "not-an-email", "subject": "Hi", "message": "x"}},
		{"blank subject", map[string]string{"name": "A", "email": "a@example.com", "subject": "   ", "message": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(testSecret, newMemoryModerationRepo())

			w := env.do("POST", "/contact", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, env.repo.messages)
		})
	}
}
