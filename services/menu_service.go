package services

import (
	"context"
	"sort"

	"github.com/amirfagh/justeat/entity"
	"github.com/amirfagh/justeat/repository"
)

// Categories in the order the menu is shown.
var MenuCategories = []MenuCategory{
	{Name: "Sandwiches", NameLocalized: "ساندويشات"},
	{Name: "Meals", NameLocalized: "وجبات"},
	{Name: "Beverages", NameLocalized: "مشروبات"},
	{Name: "Salads", NameLocalized: "سلطات"},
	{Name: "French Fries", NameLocalized: "بطاطا مقلية"},
	{Name: "Sauces", NameLocalized: "صلصات"},
}

type MenuCategory struct {
	Name          string            `json:"name"`
	NameLocalized string            `json:"namea"`
	Items         []entity.MenuItem `json:"items"`
}

type MenuService struct {
	Repo *repository.MenuRepository
}

func NewMenuService(repo *repository.MenuRepository) *MenuService {
	return &MenuService{Repo: repo}
}

// Grouped returns the catalog grouped by category. Known categories come first
// in display order, unknown ones follow alphabetically. Empty groups are kept
// for known categories so the client can render headers.
func (s *MenuService) Grouped(ctx context.Context) ([]MenuCategory, error) {
	items, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MenuCategory, len(MenuCategories))
	index := make(map[string]int, len(MenuCategories))
	for i, c := range MenuCategories {
		out[i] = MenuCategory{Name: c.Name, NameLocalized: c.NameLocalized, Items: []entity.MenuItem{}}
		index[c.Name] = i
	}

	var extra []MenuCategory
	extraIndex := map[string]int{}
	for _, it := range items {
		if i, ok := index[it.Category]; ok {
			out[i].Items = append(out[i].Items, it)
			continue
		}
		i, ok := extraIndex[it.Category]
		if !ok {
			i = len(extra)
			extraIndex[it.Category] = i
			extra = append(extra, MenuCategory{Name: it.Category, Items: []entity.MenuItem{}})
		}
		extra[i].Items = append(extra[i].Items, it)
	}
	sort.Slice(extra, func(a, b int) bool { return extra[a].Name < extra[b].Name })

	return append(out, extra...), nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*entity.MenuItem, error) {
	return s.Repo.FindByID(ctx, id)
}
