package models

import (
	"JapaneseShikhi/internal/app_errors"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ItemType string

const (
	ItemTypeResource   ItemType = "resource"
	ItemTypeLink       ItemType = "link"
	ItemTypeAssignment ItemType = "assignment"
	ItemTypeQuiz       ItemType = "quiz"
)

type Curriculum struct {
	Modules []Module `json:"modules"`
}

type Module struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Items       []Item    `json:"items"`
	IsPublished bool      `json:"is_published"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item is a curriculum entry. The fields above the variant block are shared
// by every item; exactly one variant payload matching Type may be set.
type Item struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title" validate:"required"`
	Type          ItemType  `json:"type" validate:"required,oneof=resource link assignment quiz"`
	IsPublished   bool      `json:"is_published"`
	IsFreePreview bool      `json:"is_free_preview"`
	CreatedAt     time.Time `json:"created_at"`

	Resource   *ResourceItem   `json:"resource,omitempty"`
	Link       *LinkItem       `json:"link,omitempty"`
	Assignment *AssignmentItem `json:"assignment,omitempty"`
	Quiz       *QuizItem       `json:"quiz,omitempty"`
}

type ResourceItem struct {
	ResourceType string       `json:"resource_type" validate:"omitempty,oneof=video document image audio text"`
	ResourceURL  string       `json:"resource_url"`
	Attachments  []Attachment `json:"attachments" validate:"dive"`
}

type Attachment struct {
	URL  string `json:"url" validate:"required"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type LinkItem struct {
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description,omitempty"`
}

type AssignmentItem struct {
	Instructions string     `json:"instructions"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	MaxScore     int        `json:"max_score" validate:"gte=0"`
}

type QuizItem struct {
	Questions []QuizQuestion `json:"questions" validate:"dive"`
}

type QuizQuestion struct {
	Prompt  string   `json:"prompt" validate:"required"`
	Options []string `json:"options" validate:"min=2,dive,required"`
	Answer  int      `json:"answer" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the shared fields and the variant payload when one is
// given. Payloads that belong to another type are rejected. Only link items
// must carry their payload.
func (i *Item) Validate() error {
	i.Title = strings.TrimSpace(i.Title)
	if err := validate.Struct(i); err != nil {
		return validationError(err)
	}

	set := map[ItemType]bool{
		ItemTypeResource:   i.Resource != nil,
		ItemTypeLink:       i.Link != nil,
		ItemTypeAssignment: i.Assignment != nil,
		ItemTypeQuiz:       i.Quiz != nil,
	}
	for t, present := range set {
		if present && t != i.Type {
			return app_errors.Validation("%s payload is not allowed on a %s item", t, i.Type)
		}
	}

	switch i.Type {
	case ItemTypeLink:
		if i.Link == nil {
			return app_errors.Validation("link is required for a link item")
		}
	case ItemTypeQuiz:
		if i.Quiz != nil {
			for n, q := range i.Quiz.Questions {
				if q.Answer >= len(q.Options) {
					return app_errors.Validation("quiz.questions[%d].answer is out of range", n)
				}
			}
		}
	}
	return nil
}

// Redacted strips the payload of a locked item, keeping only what a
// curriculum outline needs.
func (i Item) Redacted() Item {
	i.Resource = nil
	i.Link = nil
	i.Assignment = nil
	i.Quiz = nil
	return i
}

// AddModule appends a module. Its order is the current module count.
func (c *Curriculum) AddModule(name, description string, now time.Time) (Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Module{}, app_errors.Validation("name is required")
	}
	m := Module{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Items:       []Item{},
		Order:       len(c.Modules),
		CreatedAt:   now,
	}
	c.Modules = append(c.Modules, m)
	return m, nil
}

// Module returns a pointer to the module stored at index.
func (c *Curriculum) Module(index int) (*Module, error) {
	if index < 0 || index >= len(c.Modules) {
		return nil, fmt.Errorf("%w: no module at index %d", app_errors.ErrModuleNotFound, index)
	}
	return &c.Modules[index], nil
}

func (c *Curriculum) AddItem(moduleIndex int, item Item, now time.Time) (Item, error) {
	m, err := c.Module(moduleIndex)
	if err != nil {
		return Item{}, err
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	item.ID = uuid.New()
	item.CreatedAt = now
	m.Items = append(m.Items, item)
	return item, nil
}

// RemoveModule deletes the module at index and renumbers the rest to
// 0..n-1 in their current order, so the next AddModule gets a free order.
func (c *Curriculum) RemoveModule(index int) (Module, error) {
	m, err := c.Module(index)
	if err != nil {
		return Module{}, err
	}
	removed := *m
	c.Modules = append(c.Modules[:index], c.Modules[index+1:]...)
	c.renumber()
	return removed, nil
}

func (c *Curriculum) renumber() {
	positions := make([]int, len(c.Modules))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return c.Modules[positions[a]].Order < c.Modules[positions[b]].Order
	})
	for order, i := range positions {
		c.Modules[i].Order = order
	}
}

// SetModuleOrder moves the module at index to order. Orders are unique
// and stay within 0..n-1, so an order held by another module is a conflict.
func (c *Curriculum) SetModuleOrder(index, order int) error {
	m, err := c.Module(index)
	if err != nil {
		return err
	}
	if order < 0 || order >= len(c.Modules) {
		return app_errors.Validation("order must be between 0 and %d", len(c.Modules)-1)
	}
	for i := range c.Modules {
		if i != index && c.Modules[i].Order == order {
			return fmt.Errorf("%w: order %d is held by module %q", app_errors.ErrDuplicateModule, order, c.Modules[i].Name)
		}
	}
	m.Order = order
	return nil
}

// SwapModules exchanges the order values of two modules.
func (c *Curriculum) SwapModules(first, second int) error {
	a, err := c.Module(first)
	if err != nil {
		return err
	}
	b, err := c.Module(second)
	if err != nil {
		return err
	}
	a.Order, b.Order = b.Order, a.Order
	return nil
}

// Sorted returns a copy of the curriculum with modules in their explicit
// order. Items keep their array order.
func (c Curriculum) Sorted() Curriculum {
	modules := make([]Module, len(c.Modules))
	copy(modules, c.Modules)
	sort.SliceStable(modules, func(a, b int) bool {
		return modules[a].Order < modules[b].Order
	})
	return Curriculum{Modules: modules}
}

// View is the curriculum as seen by a caller. Admins see everything.
// Others only see published modules and items, and item payloads are
// withheld unless the caller is enrolled or the item is a free preview.
func (c Curriculum) View(admin, enrolled bool) Curriculum {
	sorted := c.Sorted()
	if admin {
		return sorted
	}
	out := Curriculum{Modules: make([]Module, 0, len(sorted.Modules))}
	for _, m := range sorted.Modules {
		if !m.IsPublished {
			continue
		}
		items := make([]Item, 0, len(m.Items))
		for _, it := range m.Items {
			if !it.IsPublished {
				continue
			}
			if !enrolled && !it.IsFreePreview {
				it = it.Redacted()
			}
			items = append(items, it)
		}
		m.Items = items
		out.Modules = append(out.Modules, m)
	}
	return out
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return app_errors.Validation("%s", err.Error())
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Item.")
	switch fe.Tag() {
	case "required":
		return app_errors.Validation("%s is required", field)
	case "oneof":
		return app_errors.Validation("%s must be one of [%s]", field, fe.Param())
	case "url":
		return app_errors.Validation("%s must be a valid URL", field)
	case "min":
		return app_errors.Validation("%s must have at least %s entries", field, fe.Param())
	default:
		return app_errors.Validation("%s failed %s validation", field, fe.Tag())
	}
}
