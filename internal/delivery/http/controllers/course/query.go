package course

import (
	"JapaneseShikhi/internal/delivery/http/controllers/middleware"
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/course/query"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type QueryService interface {
	CoursesPreview(ctx context.Context, viewer query.Viewer, count, offset int) ([]models.CoursePreview, int, error)
	CourseBySlug(ctx context.Context, viewer query.Viewer, slug string) (*models.Course, error)
	SearchCoursesPreview(ctx context.Context, query string, count, offset int) ([]models.CoursePreview, int, error)
}

type QueryHandler struct {
	log     logger.Log
	service QueryService
}

func NewQueryHandler(l logger.Log, s QueryService) *QueryHandler {
	return &QueryHandler{
		log:     l,
		service: s,
	}
}

func viewer(c *gin.Context) query.Viewer {
	identity, ok := middleware.Caller(c)
	if !ok {
		return query.Viewer{}
	}
	return query.Viewer{UserID: identity.UserID, Admin: identity.Has(models.CapabilityAdmin)}
}

func (h *QueryHandler) ListCoursePreview(c *gin.Context) {
	limit, offset := respond.Page(c, defaultPageSize, maxPageSize)
	previews, total, err := h.service.CoursesPreview(c.Request.Context(), viewer(c), limit, offset)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": previews, "total": total})
}

func (h *QueryHandler) SearchCourses(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	limit, offset := respond.Page(c, defaultPageSize, maxPageSize)
	previews, total, err := h.service.SearchCoursesPreview(c.Request.Context(), q, limit, offset)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": previews, "total": total})
}

func (h *QueryHandler) CourseBySlug(c *gin.Context) {
	course, err := h.service.CourseBySlug(c.Request.Context(), viewer(c), c.Param("slug"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}
