package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"backend/entity"
	"backend/utils"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrBadPrice     = errors.New("price must be a non-negative number")
	ErrSlugTaken    = errors.New("another item already uses this slug")
)

const defaultPrice = 30

// FoodStore is the catalog persistence surface, satisfied by the
// mongo-backed repository.
type FoodStore interface {
	FoodLookup
	List(ctx context.Context, category string) ([]entity.Food, error)
	Categories(ctx context.Context) ([]string, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Food, error)
	Create(ctx context.Context, f *entity.Food) error
	Update(ctx context.Context, f *entity.Food) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	FixMissingPrices(ctx context.Context, price float64) (int64, error)
}

type CatalogService struct {
	Foods FoodStore
}

func NewCatalogService(foods FoodStore) *CatalogService {
	return &CatalogService{Foods: foods}
}

func (s *CatalogService) List(ctx context.Context, category string) ([]entity.Food, error) {
	return s.Foods.List(ctx, category)
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.Foods.Categories(ctx)
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*entity.Food, error) {
	return s.Foods.GetByID(ctx, id)
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*entity.Food, error) {
	return s.Foods.GetBySlug(ctx, slug)
}

type FoodIn struct {
	Name        string
	Price       float64
	Category    string
	Description string
	ImageURL    string
}

func (in *FoodIn) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Price < 0 {
		return ErrBadPrice
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, in *FoodIn) (*entity.Food, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slug := utils.Slugify(in.Name)
	// Two names that normalize to the same slug are rejected outright
	// rather than silently disambiguated; the admin picks a new name.
	taken, err := s.Foods.SlugExists(ctx, slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	now := time.Now()
	f := &entity.Food{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Slug:        slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Foods.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in *FoodIn) (*entity.Food, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	f, err := s.Foods.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name != f.Name {
		// Slug is derived from the name, so a rename regenerates it.
		slug := utils.Slugify(name)
		taken, err := s.Foods.SlugExists(ctx, slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
		f.Slug = slug
	}

	f.Name = name
	f.Price = in.Price
	f.Category = in.Category
	f.Description = in.Description
	f.ImageURL = in.ImageURL
	f.UpdatedAt = time.Now()

	if err := s.Foods.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.Foods.Delete(ctx, id)
}

func (s *CatalogService) FixMissingPrices(ctx context.Context) (int64, error) {
	return s.Foods.FixMissingPrices(ctx, defaultPrice)
}
