package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"online-panthi/pkg/logger"
	"online-panthi/pkg/queue"
	"online-panthi/services/community/internal/entity"
	"online-panthi/services/community/internal/repo/cache"
	"online-panthi/services/community/internal/repo/persistent"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxContentLength = 5000

type CommunityUseCase interface {
	ListFeed(ctx context.Context, viewerID string) ([]*entity.FeedItem, error)
	CreatePost(ctx context.Context, authorID, content string) (*entity.Post, error)
	LikePost(ctx context.Context, userID, postID string) (*entity.LikeResult, error)
	UnlikePost(ctx context.Context, userID, postID string) (*entity.LikeResult, error)
	SavePost(ctx context.Context, userID, postID string) error
	UnsavePost(ctx context.Context, userID, postID string) error
	ReportPost(ctx context.Context, userID, postID string) (*entity.ReportResult, error)
	GetInteractions(ctx context.Context, userID string) (*entity.ViewerInteractions, error)
	ListSaved(ctx context.Context, userID string) ([]*entity.Post, error)
	GetActivity(ctx context.Context, userID string) (*entity.Activity, error)
}

type communityUseCase struct {
	postRepo        persistent.PostRepository
	feedCache       cache.FeedCache
	publisher       queue.Publisher
	reportThreshold int
	logger          *logger.Logger
}

// NewCommunityUseCase accepts a nil publisher; moderation events are then skipped.
func NewCommunityUseCase(
	postRepo persistent.PostRepository,
	feedCache cache.FeedCache,
	publisher queue.Publisher,
	reportThreshold int,
	logger *logger.Logger,
) CommunityUseCase {
	if feedCache == nil {
		feedCache = cache.NewNoopFeedCache()
	}
	if reportThreshold <= 0 {
		reportThreshold = 20
	}
	return &communityUseCase{
		postRepo:        postRepo,
		feedCache:       feedCache,
		publisher:       publisher,
		reportThreshold: reportThreshold,
		logger:          logger,
	}
}

// validPostID rejects ids that can never match a post before they reach the uuid column.
func validPostID(postID string) bool {
	_, err := uuid.Parse(postID)
	return err == nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	return err
}

func (uc *communityUseCase) ListFeed(ctx context.Context, viewerID string) ([]*entity.FeedItem, error) {
	posts, ok := uc.feedCache.Get(ctx)
	if !ok {
		var err error
		posts, err = uc.postRepo.List(ctx)
		if err != nil {
			uc.logger.Error("Failed to list posts: %v", err)
			return nil, fmt.Errorf("failed to list posts: %w", err)
		}
		uc.feedCache.Set(ctx, posts)
	}

	flags := map[string]map[entity.Action]bool{}
	if viewerID != "" {
		interactions, err := uc.postRepo.ListInteractions(ctx, viewerID)
		if err != nil {
			uc.logger.Error("Failed to load interactions for %s: %v", viewerID, err)
			return nil, fmt.Errorf("failed to load interactions: %w", err)
		}
		for _, in := range interactions {
			if flags[in.PostID] == nil {
				flags[in.PostID] = map[entity.Action]bool{}
			}
			flags[in.PostID][in.Action] = true
		}
	}

	items := make([]*entity.FeedItem, len(posts))
	for i, p := range posts {
		f := flags[p.ID]
		items[i] = &entity.FeedItem{
			Post:     p,
			Liked:    f[entity.ActionLike],
			Saved:    f[entity.ActionSave],
			Reported: f[entity.ActionReport],
		}
	}
	return items, nil
}

func (uc *communityUseCase) CreatePost(ctx context.Context, authorID, content string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	post := &entity.Post{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		uc.logger.Error("Failed to create post: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.feedCache.Invalidate(ctx)
	return post, nil
}

func (uc *communityUseCase) LikePost(ctx context.Context, userID, postID string) (*entity.LikeResult, error) {
	return uc.setLike(ctx, userID, postID, true)
}

func (uc *communityUseCase) UnlikePost(ctx context.Context, userID, postID string) (*entity.LikeResult, error) {
	return uc.setLike(ctx, userID, postID, false)
}

// setLike moves the counter only when the interaction row actually changed, so repeated
// likes or unlikes from one user are no-ops.
func (uc *communityUseCase) setLike(ctx context.Context, userID, postID string, like bool) (*entity.LikeResult, error) {
	if !validPostID(postID) {
		return nil, ErrPostNotFound
	}
	result := &entity.LikeResult{Liked: like}

	err := uc.postRepo.Transaction(ctx, func(repo persistent.PostRepository) error {
		post, err := repo.LockByID(ctx, postID)
		if err != nil {
			return notFound(err)
		}
		result.Likes = post.Likes

		var changed bool
		delta := 1
		if like {
			changed, err = repo.AddInteraction(ctx, userID, postID, entity.ActionLike)
		} else {
			changed, err = repo.RemoveInteraction(ctx, userID, postID, entity.ActionLike)
			delta = -1
		}
		if err != nil || !changed {
			return err
		}

		result.Likes, err = repo.AdjustLikes(ctx, postID, delta)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			uc.logger.Error("Failed to update like on post %s: %v", postID, err)
			return nil, fmt.Errorf("failed to update like: %w", err)
		}
		return nil, err
	}

	uc.feedCache.Invalidate(ctx)
	return result, nil
}

func (uc *communityUseCase) SavePost(ctx context.Context, userID, postID string) error {
	return uc.setSave(ctx, userID, postID, true)
}

func (uc *communityUseCase) UnsavePost(ctx context.Context, userID, postID string) error {
	return uc.setSave(ctx, userID, postID, false)
}

func (uc *communityUseCase) setSave(ctx context.Context, userID, postID string, save bool) error {
	if !validPostID(postID) {
		return ErrPostNotFound
	}
	err := uc.postRepo.Transaction(ctx, func(repo persistent.PostRepository) error {
		if _, err := repo.LockByID(ctx, postID); err != nil {
			return notFound(err)
		}
		var err error
		if save {
			_, err = repo.AddInteraction(ctx, userID, postID, entity.ActionSave)
		} else {
			_, err = repo.RemoveInteraction(ctx, userID, postID, entity.ActionSave)
		}
		return err
	})
	if err != nil && !errors.Is(err, ErrPostNotFound) {
		uc.logger.Error("Failed to update save on post %s: %v", postID, err)
		return fmt.Errorf("failed to update save: %w", err)
	}
	return err
}

// ReportPost records one report per user. The post row stays locked while the counter is
// bumped and compared, so exactly one reporter crosses the threshold and removes it.
func (uc *communityUseCase) ReportPost(ctx context.Context, userID, postID string) (*entity.ReportResult, error) {
	if !validPostID(postID) {
		return nil, ErrPostNotFound
	}
	result := &entity.ReportResult{Reported: true}
	var imageURL *string
	var newReport bool

	err := uc.postRepo.Transaction(ctx, func(repo persistent.PostRepository) error {
		post, err := repo.LockByID(ctx, postID)
		if err != nil {
			return notFound(err)
		}
		result.Reports = post.Reports
		imageURL = post.ImageURL

		newReport, err = repo.AddInteraction(ctx, userID, postID, entity.ActionReport)
		if err != nil || !newReport {
			return err
		}

		result.Reports, err = repo.IncrementReports(ctx, postID)
		if err != nil {
			return err
		}

		if result.Reports >= uc.reportThreshold {
			if err := repo.Delete(ctx, postID); err != nil {
				return err
			}
			result.Removed = true
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			uc.logger.Error("Failed to report post %s: %v", postID, err)
			return nil, fmt.Errorf("failed to report post: %w", err)
		}
		return nil, err
	}

	if !newReport {
		return result, nil
	}

	uc.feedCache.Invalidate(ctx)

	event := queue.ModerationEvent{
		Type:    queue.EventPostReported,
		PostID:  postID,
		ActorID: userID,
		Reports: result.Reports,
	}
	if result.Removed {
		uc.logger.Info("Post %s removed after %d reports", postID, result.Reports)
		event.Type = queue.EventPostRemoved
		if imageURL != nil {
			event.ImageURL = *imageURL
		}
	}
	uc.publish(ctx, event)

	return result, nil
}

func (uc *communityUseCase) publish(ctx context.Context, event queue.ModerationEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishModerationEvent(ctx, event); err != nil {
		uc.logger.Error("[MODERATION QUEUE] Failed to publish %s for post %s: %v", event.Type, event.PostID, err)
	}
}

func (uc *communityUseCase) GetInteractions(ctx context.Context, userID string) (*entity.ViewerInteractions, error) {
	interactions, err := uc.postRepo.ListInteractions(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to load interactions for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	out := &entity.ViewerInteractions{Liked: []string{}, Saved: []string{}, Reported: []string{}}
	for _, in := range interactions {
		switch in.Action {
		case entity.ActionLike:
			out.Liked = append(out.Liked, in.PostID)
		case entity.ActionSave:
			out.Saved = append(out.Saved, in.PostID)
		case entity.ActionReport:
			out.Reported = append(out.Reported, in.PostID)
		}
	}
	return out, nil
}

func (uc *communityUseCase) ListSaved(ctx context.Context, userID string) ([]*entity.Post, error) {
	posts, err := uc.postRepo.ListSaved(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to list saved posts for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list saved posts: %w", err)
	}
	return posts, nil
}

func (uc *communityUseCase) GetActivity(ctx context.Context, userID string) (*entity.Activity, error) {
	posts, likes, err := uc.postRepo.AuthorStats(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to load author stats for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	interactions, err := uc.GetInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entity.Activity{
		Posts:         posts,
		LikesReceived: likes,
		Liked:         len(interactions.Liked),
		Saved:         len(interactions.Saved),
		Reported:      len(interactions.Reported),
	}, nil
}
