package course

import (
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service/course/curriculum"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CurriculumService interface {
	Curriculum(ctx context.Context, courseID uuid.UUID) (*models.Curriculum, error)
	AddModule(ctx context.Context, courseID uuid.UUID, name, description string) (*curriculum.ModuleResult, error)
	UpdateModule(ctx context.Context, courseID uuid.UUID, moduleIndex int, in curriculum.ModuleInput) (*curriculum.ModuleResult, error)
	DeleteModule(ctx context.Context, courseID uuid.UUID, moduleIndex int) (*curriculum.ModuleResult, error)
	PublishModule(ctx context.Context, courseID uuid.UUID, moduleIndex int, published bool) (*curriculum.ModuleResult, error)
	SwapModules(ctx context.Context, courseID uuid.UUID, first, second int) (*models.Curriculum, error)
	AddItem(ctx context.Context, courseID uuid.UUID, moduleIndex int, item models.Item) (*curriculum.ItemResult, error)
	AddLink(ctx context.Context, courseID uuid.UUID, moduleIndex int, item models.Item) (*curriculum.ItemResult, error)
}

type CurriculumHandler struct {
	log     logger.Log
	service CurriculumService
}

func NewCurriculumHandler(l logger.Log, s CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{
		log:     l,
		service: s,
	}
}

type moduleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

type swapRequest struct {
	FirstIndex  *int `json:"first_index" binding:"required,min=0"`
	SecondIndex *int `json:"second_index" binding:"required,min=0"`
}

type publishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

func (h *CurriculumHandler) GetCurriculum(c *gin.Context) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	cur, err := h.service.Curriculum(c.Request.Context(), courseID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *CurriculumHandler) AddModule(c *gin.Context) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input moduleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	var name, description string
	if input.Name != nil {
		name = *input.Name
	}
	if input.Description != nil {
		description = *input.Description
	}
	res, err := h.service.AddModule(c.Request.Context(), courseID, name, description)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *CurriculumHandler) UpdateModule(c *gin.Context) {
	courseID, index, ok := moduleParams(c)
	if !ok {
		return
	}
	var input moduleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := h.service.UpdateModule(c.Request.Context(), courseID, index, curriculum.ModuleInput{
		Name:        input.Name,
		Description: input.Description,
		Order:       input.Order,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CurriculumHandler) DeleteModule(c *gin.Context) {
	courseID, index, ok := moduleParams(c)
	if !ok {
		return
	}
	res, err := h.service.DeleteModule(c.Request.Context(), courseID, index)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CurriculumHandler) PublishModule(c *gin.Context) {
	courseID, index, ok := moduleParams(c)
	if !ok {
		return
	}
	var input publishRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := h.service.PublishModule(c.Request.Context(), courseID, index, *input.IsPublished)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CurriculumHandler) SwapModules(c *gin.Context) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var input swapRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err)
		return
	}
	cur, err := h.service.SwapModules(c.Request.Context(), courseID, *input.FirstIndex, *input.SecondIndex)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cur)
}

func (h *CurriculumHandler) AddItem(c *gin.Context) {
	h.addItem(c, h.service.AddItem)
}

func (h *CurriculumHandler) AddLink(c *gin.Context) {
	h.addItem(c, h.service.AddLink)
}

func (h *CurriculumHandler) addItem(c *gin.Context, add func(context.Context, uuid.UUID, int, models.Item) (*curriculum.ItemResult, error)) {
	courseID, index, ok := moduleParams(c)
	if !ok {
		return
	}
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		respond.BadRequest(c, err)
		return
	}
	res, err := add(c.Request.Context(), courseID, index, item)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func moduleParams(c *gin.Context) (uuid.UUID, int, bool) {
	courseID, ok := respond.UUIDParam(c, "course_id")
	if !ok {
		return uuid.Nil, 0, false
	}
	index, ok := respond.IndexParam(c, "module_index")
	if !ok {
		return uuid.Nil, 0, false
	}
	return courseID, index, true
}
