package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"online-panthi/pkg/logger"
	"online-panthi/pkg/models"
	"online-panthi/services/course/internal/entity"
	"online-panthi/services/course/internal/repo/cache"
	"online-panthi/services/course/internal/repo/persistent"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset kinds accepted by UploadAsset.
const (
	AssetThumbnail = "thumbnail"
	AssetResource  = "resource"
	AssetVideo     = "video"
)

// ObjectStore is the part of the S3 client the course service needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
}

type CourseUseCase interface {
	ListCourses(ctx context.Context, query entity.CatalogQuery) ([]*entity.Course, error)
	GetCourse(ctx context.Context, id string) (*entity.CourseDetail, error)
	CreateCourse(ctx context.Context, draft *entity.Draft) (*entity.CreateResult, error)
	UploadAsset(ctx context.Context, kind, filename, contentType string, body io.ReadSeeker) (string, error)
}

type courseUseCase struct {
	courseRepo   persistent.CourseRepository
	catalogCache cache.CatalogCache
	store        ObjectStore
	logger       *logger.Logger
}

// NewCourseUseCase accepts a nil store; uploads then fail with ErrStorageDisabled.
func NewCourseUseCase(
	courseRepo persistent.CourseRepository,
	catalogCache cache.CatalogCache,
	store ObjectStore,
	logger *logger.Logger,
) CourseUseCase {
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &courseUseCase{
		courseRepo:   courseRepo,
		catalogCache: catalogCache,
		store:        store,
		logger:       logger,
	}
}

func (uc *courseUseCase) ListCourses(ctx context.Context, query entity.CatalogQuery) ([]*entity.Course, error) {
	courses, ok := uc.catalogCache.Get(ctx)
	if !ok {
		var err error
		courses, err = uc.courseRepo.ListAll(ctx)
		if err != nil {
			uc.logger.Error("Failed to list courses: %v", err)
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		uc.catalogCache.Set(ctx, courses)
	}

	return ApplyCatalog(courses, query), nil
}

func (uc *courseUseCase) GetCourse(ctx context.Context, id string) (*entity.CourseDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrCourseNotFound
	}

	course, err := uc.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	topics, err := uc.courseRepo.ListTopics(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	for i := range topics {
		for j := range topics[i].Videos {
			v := &topics[i].Videos[j]
			v.EmbedURL = EmbedURL(v.VideoURL)
		}
	}

	return &entity.CourseDetail{Course: course, Topics: topics}, nil
}

// oneOf returns the allowed spelling of value, compared case-insensitively. Blank values
// take fallback.
func oneOf(value string, allowed []string, fallback string, invalid error) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback, nil
	}
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return a, nil
		}
	}
	return "", invalid
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// buildTree validates the draft and assigns ids so the whole tree can be inserted at once.
func orderIndex(explicit *int, position int) (int, error) {
	if explicit == nil {
		return position, nil
	}
	if *explicit < 0 {
		return 0, ErrInvalidOrder
	}
	return *explicit, nil
}

func buildTree(draft *entity.Draft) (*entity.Course, []entity.Topic, *entity.CreateResult, error) {
	name := strings.TrimSpace(draft.Course.Name)
	if name == "" {
		return nil, nil, nil, ErrNameRequired
	}

	category, err := oneOf(draft.Course.Category, models.CourseCategories, models.DefaultCategory, ErrInvalidCategory)
	if err != nil {
		return nil, nil, nil, err
	}
	level, err := oneOf(draft.Course.Level, models.CourseLevels, models.DefaultLevel, ErrInvalidLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	language, err := oneOf(draft.Course.Language, models.CourseLanguages, models.DefaultLanguage, ErrInvalidLanguage)
	if err != nil {
		return nil, nil, nil, err
	}

	course := &entity.Course{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    strings.TrimSpace(draft.Course.Description),
		Category:       category,
		Level:          level,
		InstructorName: strings.TrimSpace(draft.Course.InstructorName),
		Stream:         strings.TrimSpace(draft.Course.Stream),
		ThumbnailURL:   strings.TrimSpace(draft.Course.ThumbnailURL),
		IsPaid:         draft.Course.IsPaid,
		Language:       language,
		Recommended:    draft.Course.Recommended,
	}
	result := &entity.CreateResult{ID: course.ID}

	var topics []entity.Topic
	for _, td := range draft.Topics {
		title := strings.TrimSpace(td.Title)
		if title == "" {
			continue
		}

		topicOrder, err := orderIndex(td.OrderIndex, len(topics))
		if err != nil {
			return nil, nil, nil, err
		}
		topic := entity.Topic{
			ID:         uuid.New().String(),
			CourseID:   course.ID,
			Title:      title,
			OrderIndex: topicOrder,
		}

		for _, vd := range td.Videos {
			vTitle := strings.TrimSpace(vd.Title)
			vURL := strings.TrimSpace(vd.VideoURL)
			if vTitle == "" && vURL == "" {
				continue
			}
			videoOrder, err := orderIndex(vd.OrderIndex, len(topic.Videos))
			if err != nil {
				return nil, nil, nil, err
			}
			isFree := true
			if vd.IsFree != nil {
				isFree = *vd.IsFree
			}
			topic.Videos = append(topic.Videos, entity.Video{
				ID:           uuid.New().String(),
				TopicID:      topic.ID,
				Title:        vTitle,
				Instructor:   optional(vd.Instructor),
				VideoURL:     vURL,
				Duration:     vd.Duration,
				ThumbnailURL: optional(vd.ThumbnailURL),
				OrderIndex:   videoOrder,
				IsFree:       isFree,
			})
		}

		for _, rd := range td.Resources {
			rName := strings.TrimSpace(rd.Name)
			rURL := strings.TrimSpace(rd.FileURL)
			if rName == "" && rURL == "" {
				continue
			}
			topic.Resources = append(topic.Resources, entity.Resource{
				ID:      uuid.New().String(),
				TopicID: topic.ID,
				Name:    rName,
				FileURL: rURL,
			})
		}

		result.Videos += len(topic.Videos)
		result.Resources += len(topic.Resources)
		topics = append(topics, topic)
	}
	result.Topics = len(topics)

	return course, topics, result, nil
}

func (uc *courseUseCase) CreateCourse(ctx context.Context, draft *entity.Draft) (*entity.CreateResult, error) {
	course, topics, result, err := buildTree(draft)
	if err != nil {
		return nil, err
	}

	if err := uc.courseRepo.CreateTree(ctx, course, topics); err != nil {
		uc.logger.Error("Failed to create course %q: %v", course.Name, err)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	uc.catalogCache.Invalidate(ctx)
	uc.logger.Info("Created course %s with %d topics, %d videos, %d resources", result.ID, result.Topics, result.Videos, result.Resources)

	return result, nil
}

func defaultContentType(kind string) string {
	switch kind {
	case AssetThumbnail:
		return "image/jpeg"
	case AssetVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

func (uc *courseUseCase) UploadAsset(ctx context.Context, kind, filename, contentType string, body io.ReadSeeker) (string, error) {
	if kind != AssetThumbnail && kind != AssetResource && kind != AssetVideo {
		return "", ErrInvalidAssetKind
	}
	if uc.store == nil {
		return "", ErrStorageDisabled
	}

	if contentType == "" {
		contentType = defaultContentType(kind)
	}

	key := fmt.Sprintf("courses/%s/%s%s", kind, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
	url, err := uc.store.UploadFile(ctx, key, body, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload %s: %v", key, err)
		return "", fmt.Errorf("failed to store %s: %w", kind, err)
	}
	return url, nil
}
