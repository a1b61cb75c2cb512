package curriculum

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCurriculum(ctx context.Context, id uuid.UUID, fn func(c *models.Course) error) (*models.Course, error)
}

type CurriculumService struct {
	log        logger.Log
	courseRepo courseRepo
	now        func() time.Time
}

func NewCurriculumService(log logger.Log, c courseRepo) *CurriculumService {
	return &CurriculumService{
		log:        log,
		courseRepo: c,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ModuleResult is returned by module mutations: the touched module and the
// curriculum as stored, in array order so indexes stay addressable.
type ModuleResult struct {
	Module     models.Module     `json:"module"`
	Curriculum models.Curriculum `json:"curriculum"`
}

type ItemResult struct {
	Item       models.Item       `json:"item"`
	Curriculum models.Curriculum `json:"curriculum"`
}

type ModuleInput struct {
	Name        *string
	Description *string
	Order       *int
}

func (s *CurriculumService) AddModule(ctx context.Context, courseID uuid.UUID, name, description string) (*ModuleResult, error) {
	var module models.Module
	course, err := s.courseRepo.UpdateCurriculum(ctx, courseID, func(c *models.Course) error {
		m, err := c.Curriculum.AddModule(name, description, s.now())
		if err != nil {
			return err
		}
		module = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("module added", "course_id", courseID, "module_id", module.ID, "order", module.Order)
	return &ModuleResult{Module: module, Curriculum: course.Curriculum}, nil
}

func (s *CurriculumService) AddItem(ctx context.Context, courseID uuid.UUID, moduleIndex int, item models.Item) (*ItemResult, error) {
	var added models.Item
	course, err := s.courseRepo.UpdateCurriculum(ctx, courseID, func(c *models.Course) error {
		it, err := c.Curriculum.AddItem(moduleIndex, item, s.now())
		if err != nil {
			return err
		}
		added = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: added, Curriculum: course.Curriculum}, nil
}

// AddLink adds an external link item. The item type is forced to link and
// payloads of other types are dropped.
func (s *CurriculumService) AddLink(ctx context.Context, courseID uuid.UUID, moduleIndex int, item models.Item) (*ItemResult, error) {
	item.Type = models.ItemTypeLink
	item.Resource = nil
	item.Assignment = nil
	item.Quiz = nil
	return s.AddItem(ctx, courseID, moduleIndex, item)
}

func (s *CurriculumService) UpdateModule(ctx context.Context, courseID uuid.UUID, moduleIndex int, in ModuleInput) (*ModuleResult, error) {
	var updated models.Module
	course, err := s.courseRepo.UpdateCurriculum(ctx, courseID, func(c *models.Course) error {
		m, err := c.Curriculum.Module(moduleIndex)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return app_errors.Validation("name is required")
			}
			m.Name = name
		}
		if in.Description != nil {
			m.Description = strings.TrimSpace(*in.Description)
		}
		if in.Order != nil {
			if err := c.Curriculum.SetModuleOrder(moduleIndex, *in.Order); err != nil {
				return err
			}
		}
		updated = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ModuleResult{Module: updated, Curriculum: course.Curriculum}, nil
}

// DeleteModule removes the module at moduleIndex. The remaining modules
// are renumbered without gaps.
func (s *CurriculumService) DeleteModule(ctx context.Context, courseID uuid.UUID, moduleIndex int) (*ModuleResult, error) {
	var removed models.Module
	course, err := s.courseRepo.UpdateCurriculum(ctx, courseID, func(c *models.Course) error {
		m, err := c.Curriculum.RemoveModule(moduleIndex)
		if err != nil {
			return err
		}
		removed = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("module deleted", "course_id", courseID, "module_id", removed.ID)
	return &ModuleResult{Module: removed, Curriculum: course.Curriculum}, nil
}

// SwapModules exchanges the order of two modules. Array positions, and so
// module indexes, do not change.
func (s *CurriculumService) SwapModules(ctx context.Context, courseID uuid.UUID, first, second int) (*models.Curriculum, error) {
	course, err := s.courseRepo.UpdateCurriculum(ctx, courseID, func(c *models.Course) error {
		return c.Curriculum.SwapModules(first, second)
	})
	if err != nil {
		return nil, err
	}
	return &course.Curriculum, nil
}

func (s *CurriculumService) PublishModule(ctx context.Context, courseID uuid.UUID, moduleIndex int, published bool) (*ModuleResult, error) {
	var updated models.Module
	course, err := s.courseRepo.UpdateCurriculum(ctx, courseID, func(c *models.Course) error {
		m, err := c.Curriculum.Module(moduleIndex)
		if err != nil {
			return err
		}
		m.IsPublished = published
		updated = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ModuleResult{Module: updated, Curriculum: course.Curriculum}, nil
}

// Curriculum returns the stored curriculum for editors.
func (s *CurriculumService) Curriculum(ctx context.Context, courseID uuid.UUID) (*models.Curriculum, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &course.Curriculum, nil
}
