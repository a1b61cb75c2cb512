package models

import (
	"JapaneseShikhi/internal/app_errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurriculum_AddModuleOrder(t *testing.T) {
	now := time.Now()
	var c Curriculum

	m1, err := c.AddModule("Module 1", "", now)
	require.NoError(t, err)
	assert.Equal(t, 0, m1.Order)

	m2, err := c.AddModule("Module 2", "kana", now)
	require.NoError(t, err)
	assert.Equal(t, 1, m2.Order)

	// remaining modules are renumbered, so order still follows the count
	_, err = c.RemoveModule(0)
	require.NoError(t, err)
	m3, err := c.AddModule("Module 3", "", now)
	require.NoError(t, err)
	assert.Equal(t, 1, m3.Order)
	assert.Len(t, c.Modules, 2)
	assert.Equal(t, 0, c.Modules[0].Order)
}

func TestCurriculum_RemoveModuleKeepsOrdersUnique(t *testing.T) {
	now := time.Now()
	var c Curriculum
	for _, name := range []string{"A", "B", "C"} {
		_, err := c.AddModule(name, "", now)
		require.NoError(t, err)
	}
	_, err := c.RemoveModule(0)
	require.NoError(t, err)
	d, err := c.AddModule("D", "", now)
	require.NoError(t, err)

	orders := map[int]bool{}
	for _, m := range c.Modules {
		orders[m.Order] = true
	}
	assert.Len(t, orders, 3)
	assert.Equal(t, 2, d.Order)
	assert.Equal(t, []string{"B", "C", "D"}, []string{c.Sorted().Modules[0].Name, c.Sorted().Modules[1].Name, c.Sorted().Modules[2].Name})
}

func TestCurriculum_SetModuleOrder(t *testing.T) {
	now := time.Now()
	var c Curriculum
	for _, name := range []string{"A", "B"} {
		_, err := c.AddModule(name, "", now)
		require.NoError(t, err)
	}

	assert.ErrorIs(t, c.SetModuleOrder(1, 0), app_errors.ErrDuplicateModule)
	assert.ErrorIs(t, c.SetModuleOrder(1, 2), app_errors.ErrValidation)
	assert.ErrorIs(t, c.SetModuleOrder(2, 0), app_errors.ErrNotFound)
	assert.NoError(t, c.SetModuleOrder(1, 1))
	assert.Equal(t, 1, c.Modules[1].Order)
}

func TestCurriculum_AddModuleEmptyName(t *testing.T) {
	var c Curriculum
	_, err := c.AddModule("   ", "", time.Now())
	assert.ErrorIs(t, err, app_errors.ErrValidation)
	assert.Empty(t, c.Modules)
}

func TestCurriculum_AddItem(t *testing.T) {
	now := time.Now()
	var c Curriculum
	_, err := c.AddModule("Hiragana", "", now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		index   int
		item    Item
		wantErr error
	}{
		{
			name:  "resource with attachments",
			index: 0,
			item: Item{Title: "Chart", Type: ItemTypeResource, Resource: &ResourceItem{
				ResourceType: "document",
				Attachments:  []Attachment{{URL: "https://cdn.example/a.pdf", Name: "a.pdf", Type: "application/pdf"}},
			}},
		},
		{
			name:  "link",
			index: 0,
			item:  Item{Title: "NHK Easy", Type: ItemTypeLink, Link: &LinkItem{URL: "https://www3.nhk.or.jp/news/easy/"}},
		},
		{name: "assignment without payload", index: 0, item: Item{Title: "Write あ", Type: ItemTypeAssignment}},
		{name: "module index out of range", index: 3, item: Item{Title: "x", Type: ItemTypeQuiz}, wantErr: app_errors.ErrNotFound},
		{name: "negative module index", index: -1, item: Item{Title: "x", Type: ItemTypeQuiz}, wantErr: app_errors.ErrNotFound},
		{name: "empty title", index: 0, item: Item{Title: " ", Type: ItemTypeQuiz}, wantErr: app_errors.ErrValidation},
		{name: "unknown type", index: 0, item: Item{Title: "x", Type: "video"}, wantErr: app_errors.ErrValidation},
		{
			name:  "attachment without url",
			index: 0,
			item: Item{Title: "x", Type: ItemTypeResource, Resource: &ResourceItem{
				Attachments: []Attachment{{Name: "a.pdf"}},
			}},
			wantErr: app_errors.ErrValidation,
		},
		{name: "resource without payload", index: 0, item: Item{Title: "Outline only", Type: ItemTypeResource}},
		{name: "link without payload", index: 0, item: Item{Title: "x", Type: ItemTypeLink}, wantErr: app_errors.ErrValidation},
		{name: "link with bad url", index: 0, item: Item{Title: "x", Type: ItemTypeLink, Link: &LinkItem{URL: "nope"}}, wantErr: app_errors.ErrValidation},
		{
			name:    "payload of another type",
			index:   0,
			item:    Item{Title: "x", Type: ItemTypeQuiz, Link: &LinkItem{URL: "https://example.com"}},
			wantErr: app_errors.ErrValidation,
		},
		{
			name:  "quiz answer out of range",
			index: 0,
			item: Item{Title: "x", Type: ItemTypeQuiz, Quiz: &QuizItem{Questions: []QuizQuestion{
				{Prompt: "あ?", Options: []string{"a", "i"}, Answer: 2},
			}}},
			wantErr: app_errors.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(c.Modules[0].Items)
			got, err := c.AddItem(tt.index, tt.item, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, c.Modules[0].Items, before)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Len(t, c.Modules[0].Items, before+1)
		})
	}
}

func TestCurriculum_ValidationMessageUsesJSONNames(t *testing.T) {
	item := Item{Title: "x", Type: ItemTypeResource, Resource: &ResourceItem{Attachments: []Attachment{{}}}}
	err := item.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource.attachments[0].url is required")
}

func TestCurriculum_ViewSortsByOrderAndHides(t *testing.T) {
	c := Curriculum{Modules: []Module{
		{Name: "second", Order: 1, IsPublished: true, Items: []Item{
			{Title: "locked", Type: ItemTypeLink, IsPublished: true, Link: &LinkItem{URL: "https://a.example"}},
			{Title: "preview", Type: ItemTypeLink, IsPublished: true, IsFreePreview: true, Link: &LinkItem{URL: "https://b.example"}},
			{Title: "draft", Type: ItemTypeQuiz},
		}},
		{Name: "first", Order: 0, IsPublished: true},
		{Name: "hidden", Order: 2},
	}}

	admin := c.View(true, false)
	require.Len(t, admin.Modules, 3)
	assert.Equal(t, "first", admin.Modules[0].Name)
	assert.Equal(t, "second", admin.Modules[1].Name)

	guest := c.View(false, false)
	require.Len(t, guest.Modules, 2)
	items := guest.Modules[1].Items
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Link)
	assert.NotNil(t, items[1].Link)

	student := c.View(false, true)
	assert.NotNil(t, student.Modules[1].Items[0].Link)

	// the stored curriculum is untouched
	assert.Equal(t, "second", c.Modules[0].Name)
	assert.NotNil(t, c.Modules[0].Items[0].Link)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"JLPT N5 Complete Course", "jlpt-n5-complete-course"},
		{"  Kanji: 100 Essentials! ", "kanji-100-essentials"},
		{"日本語 Basics", "basics"},
		{"日本語", ""},
		{"snake_case  stays", "snake_case-stays"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
	assert.Regexp(t, `^course-[0-9a-f]{8}$`, BaseSlug("日本語"))
	assert.Equal(t, "n5", SlugCandidate("n5", 1))
	assert.Equal(t, "n5-3", SlugCandidate("n5", 3))
}
