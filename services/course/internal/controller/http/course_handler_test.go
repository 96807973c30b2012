package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"online-panthi/pkg/logger"
	"online-panthi/services/course/internal/entity"
	"online-panthi/services/course/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCourseUseCase is a mock implementation of CourseUseCase
type MockCourseUseCase struct {
	mock.Mock
}

func (m *MockCourseUseCase) ListCourses(ctx context.Context, query entity.CatalogQuery) ([]*entity.Course, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Course), args.Error(1)
}

func (m *MockCourseUseCase) GetCourse(ctx context.Context, id string) (*entity.CourseDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CourseDetail), args.Error(1)
}

func (m *MockCourseUseCase) CreateCourse(ctx context.Context, draft *entity.Draft) (*entity.CreateResult, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreateResult), args.Error(1)
}

func (m *MockCourseUseCase) UploadAsset(ctx context.Context, kind, filename, contentType string, body io.ReadSeeker) (string, error) {
	args := m.Called(ctx, kind, filename, contentType, body)
	return args.String(0), args.Error(1)
}

var _ usecase.CourseUseCase = (*MockCourseUseCase)(nil)

func setupTestRouter(handler *CourseHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/courses", handler.ListCourses)
	router.GET("/courses/:id", handler.GetCourse)
	router.POST("/courses", handler.CreateCourse)
	router.POST("/uploads", handler.UploadAsset)
	return router
}

func TestListCourses_ParsesFilters(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	want := entity.CatalogQuery{Search: "algebra", Level: "advanced", Stream: "all", Price: "free", Sort: "most_rated"}
	mockUseCase.On("ListCourses", mock.Anything, want).Return([]*entity.Course{{ID: "c1", Name: "Algebra"}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/courses?q=algebra&level=Advanced&stream=music&sort=most_rated", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Courses []entity.Course     `json:"courses"`
		Count   int                 `json:"count"`
		Filters entity.CatalogQuery `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, want, resp.Filters)
	mockUseCase.AssertExpectations(t)
}

func TestGetCourse_NotFound(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	mockUseCase.On("GetCourse", mock.Anything, "missing").Return(nil, usecase.ErrCourseNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/courses/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreateCourse_Created(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	mockUseCase.On("CreateCourse", mock.Anything, mock.MatchedBy(func(d *entity.Draft) bool {
		return d.Course.Name == "Chemistry" && len(d.Topics) == 1 && d.Topics[0].Videos[0].VideoURL == "https://youtu.be/x"
	})).Return(&entity.CreateResult{ID: "c1", Topics: 1, Videos: 1}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"course": map[string]interface{}{"name": "Chemistry", "category": "Science"},
		"topics": []map[string]interface{}{
			{"title": "Atoms", "videos": []map[string]interface{}{{"title": "Intro", "video_url": "https://youtu.be/x"}}},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/courses", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp entity.CreateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entity.CreateResult{ID: "c1", Topics: 1, Videos: 1}, resp)
	mockUseCase.AssertExpectations(t)
}

func TestCreateCourse_InvalidDraft(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	mockUseCase.On("CreateCourse", mock.Anything, mock.Anything).Return(nil, usecase.ErrNameRequired)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/courses", bytes.NewBufferString(`{"course":{"name":" "}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "course name is required")
}

func TestCreateCourse_PassesOrderIndex(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	mockUseCase.On("CreateCourse", mock.Anything, mock.MatchedBy(func(d *entity.Draft) bool {
		return len(d.Topics) == 1 && d.Topics[0].OrderIndex != nil && *d.Topics[0].OrderIndex == -2
	})).Return(nil, usecase.ErrInvalidOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/courses", bytes.NewBufferString(`{"course":{"name":"Chemistry"},"topics":[{"title":"Organic","order_index":-2}]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertExpectations(t)
}

func multipartUpload(t *testing.T, kind string, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("kind", kind))
	if withFile {
		part, err := mw.CreateFormFile("file", "cover.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("png-bytes"))
	}
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAsset_OK(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	mockUseCase.On("UploadAsset", mock.Anything, "thumbnail", "cover.png", mock.Anything, mock.Anything).
		Return("https://bucket.example.com/courses/thumbnail/abc.png", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "thumbnail", true))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "courses/thumbnail/abc.png")
	mockUseCase.AssertExpectations(t)
}

func TestUploadAsset_MissingFile(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "thumbnail", false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "UploadAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadAsset_StorageDisabled(t *testing.T) {
	mockUseCase := new(MockCourseUseCase)
	router := setupTestRouter(NewCourseHandler(mockUseCase, logger.New()))

	mockUseCase.On("UploadAsset", mock.Anything, "video", mock.Anything, mock.Anything, mock.Anything).
		Return("", usecase.ErrStorageDisabled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "video", true))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
