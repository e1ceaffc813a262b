package catalog

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/catalog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService handles browse category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}

	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := category.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Icon != "" {
		if err := category.SetIcon(req.Icon); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.Featured != nil {
		category.SetFeatured(*req.Featured)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name))

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves all categories in display order
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{
		OrderBy:  "sort_order",
		OrderDir: "asc",
	})
	if err != nil {
		return nil, err
	}

	return toCategoryResponses(categories), nil
}

// ListActive retrieves active categories for the storefront
func (s *CategoryService) ListActive(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	return toCategoryResponses(categories), nil
}

// ListFeatured retrieves featured categories for the home page
func (s *CategoryService) ListFeatured(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindFeatured(ctx)
	if err != nil {
		return nil, err
	}

	return toCategoryResponses(categories), nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
		}
	}

	name := valueOr(req.Name, category.Name)
	description := valueOr(req.Description, category.Description)
	if err := category.Update(name, description); err != nil {
		return nil, err
	}

	if req.Icon != nil {
		if err := category.SetIcon(*req.Icon); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.Featured != nil {
		category.SetFeatured(*req.Featured)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate activates a category
func (s *CategoryService) Activate(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Activate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Deactivate deactivates a category
func (s *CategoryService) Deactivate(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete deletes a category. Categories with listings cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return err
	}

	hasListings, err := s.categoryRepo.HasListings(ctx, category.ID)
	if err != nil {
		return err
	}
	if hasListings {
		return shared.NewDomainError("HAS_LISTINGS", "Cannot delete category with associated listings")
	}

	return s.categoryRepo.Delete(ctx, id)
}

func toCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
