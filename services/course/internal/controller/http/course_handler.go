package http

import (
	"errors"
	"net/http"

	"online-panthi/pkg/logger"
	"online-panthi/pkg/validation"
	"online-panthi/services/course/internal/entity"
	"online-panthi/services/course/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 200 << 20

type CourseHandler struct {
	courseUseCase usecase.CourseUseCase
	logger        *logger.Logger
}

func NewCourseHandler(courseUseCase usecase.CourseUseCase, logger *logger.Logger) *CourseHandler {
	return &CourseHandler{
		courseUseCase: courseUseCase,
		logger:        logger,
	}
}

type CreateCourseRequest struct {
	Course entity.CourseDraft  `json:"course"`
	Topics []entity.TopicDraft `json:"topics"`
}

func (h *CourseHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNameRequired),
		errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidLevel),
		errors.Is(err, usecase.ErrInvalidLanguage),
		errors.Is(err, usecase.ErrInvalidAssetKind),
		errors.Is(err, usecase.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Course request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

// ListCourses godoc
// @Summary      Course catalog
// @Description  Filter and sort the catalog. Unknown filter values fall back to the defaults.
// @Tags         courses
// @Produce      json
// @Param        q       query  string  false  "Search in name, instructor and description"
// @Param        level   query  string  false  "all | beginner | ordinary | advanced"  default(all)
// @Param        stream  query  string  false  "all | tech | commerce | science | maths | arts | etc"  default(all)
// @Param        price   query  string  false  "all | free | paid"  default(free)
// @Param        sort    query  string  false  "popularity | most_rated"  default(popularity)
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	query := usecase.ParseCatalogQuery(
		c.Query("q"),
		c.Query("level"),
		c.Query("stream"),
		c.Query("price"),
		c.Query("sort"),
	)

	courses, err := h.courseUseCase.ListCourses(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"count":   len(courses),
		"filters": query,
	})
}

// GetCourse godoc
// @Summary      Course detail
// @Description  Course with topics, videos (with embed_url) and resources
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  entity.CourseDetail
// @Failure      404  {object}  map[string]string
// @Router       /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseUseCase.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// CreateCourse godoc
// @Summary      Publish a course
// @Description  Creates a course with its topics, videos and resources in one step
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCourseRequest true "Course draft"
// @Success      201  {object}  entity.CreateResult
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	result, err := h.courseUseCase.CreateCourse(c.Request.Context(), &entity.Draft{
		Course: req.Course,
		Topics: req.Topics,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UploadAsset godoc
// @Summary      Upload a course file
// @Description  Stores a thumbnail, resource or video in object storage and returns its public URL
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        kind  formData  string  true  "thumbnail | resource | video"
// @Param        file  formData  file    true  "File"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /uploads [post]
func (h *CourseHandler) UploadAsset(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file"})
		return
	}
	defer src.Close()

	url, err := h.courseUseCase.UploadAsset(
		c.Request.Context(),
		c.PostForm("kind"),
		file.Filename,
		file.Header.Get("Content-Type"),
		src,
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
