package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

const (
	homeFeaturedLimit   = 3
	homeCategoriesLimit = 4
	relatedLimit        = 3
	suggestionLimit     = 5
	suggestionMinPrefix = 2
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductDetail is a product and the related listings shown beside it.
type ProductDetail struct {
	Product *models.Product
	Related []models.Product
}

// HomePayload feeds the storefront landing page.
type HomePayload struct {
	Featured   []models.Product
	Categories []models.Category
}

// ProductInput carries admin create/update fields. Pointer fields are
// applied only when present so updates stay partial.
type ProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Slug        *string
	Description *string
	Price       *string
	Stock       *int
	Available   *bool
	Featured    *bool
}

// CategoryInput carries admin category fields.
type CategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	ImageKey    *string
	IsActive    *bool
}

// ImageInput describes a new product image.
type ImageInput struct {
	Key     string
	AltText string
	IsMain  bool
}

// Service exposes catalog reads plus admin mutations.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductPage, error)
	GetProduct(ctx context.Context, slug string) (*ProductDetail, error)
	Home(ctx context.Context) (*HomePayload, error)
	Suggestions(ctx context.Context, prefix string) ([]models.Product, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)

	ListAdminProducts(ctx context.Context, params pagination.Params, status AdminProductStatus) (*ProductPage, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	AttachImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error)
	MakeMainImage(ctx context.Context, productID, imageID uuid.UUID) error
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the catalog service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductPage, error) {
	if filters.MinPrice != nil {
		if _, err := decimal.NewFromString(*filters.MinPrice); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid min price")
		}
	}
	if filters.MaxPrice != nil {
		if _, err := decimal.NewFromString(*filters.MaxPrice); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid max price")
		}
	}
	page, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return page, nil
}

func (s *service) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.Available {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	related, err := s.repo.FindRelatedProducts(ctx, product.CategoryID, product.ID, relatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load related products")
	}
	return &ProductDetail{Product: product, Related: related}, nil
}

func (s *service) Home(ctx context.Context) (*HomePayload, error) {
	featured, err := s.repo.FindFeaturedProducts(ctx, homeFeaturedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load featured products")
	}
	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load categories")
	}
	if len(categories) > homeCategoriesLimit {
		categories = categories[:homeCategoriesLimit]
	}
	return &HomePayload{Featured: featured, Categories: categories}, nil
}

func (s *service) Suggestions(ctx context.Context, prefix string) ([]models.Product, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < suggestionMinPrefix {
		return []models.Product{}, nil
	}
	products, err := s.repo.SearchSuggestions(ctx, prefix, suggestionLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search suggestions")
	}
	return products, nil
}

func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return category, nil
}

func (s *service) ListAdminProducts(ctx context.Context, params pagination.Params, status AdminProductStatus) (*ProductPage, error) {
	switch status {
	case "", AdminProductStatusAvailable, AdminProductStatusUnavailable, AdminProductStatusFeatured, AdminProductStatusLowStock:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status filter")
	}
	page, err := s.repo.ListAdminProducts(ctx, params, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admin products")
	}
	return page, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.CategoryID == nil || *input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	if input.Price == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price required")
	}
	price, err := parsePrice(*input.Price)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: *input.CategoryID,
		Name:       strings.TrimSpace(*input.Name),
		Slug:       resolveSlug(input.Slug, *input.Name),
		Price:      price,
		Available:  true,
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		updates["slug"] = slugify(*input.Slug)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		updates["price"] = price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if input.Featured != nil {
		updates["featured"] = *input.Featured
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		updates["category_id"] = *input.CategoryID
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
	}

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	category := &models.Category{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(*input.Name),
		Slug:     resolveSlug(input.Slug, *input.Name),
		IsActive: true,
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.ImageKey != nil {
		category.ImageKey = *input.ImageKey
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		updates["slug"] = slugify(*input.Slug)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ImageKey != nil {
		updates["image_key"] = *input.ImageKey
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
		}
	}

	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error) {
	if strings.TrimSpace(input.Key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image key required")
	}
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	image := &models.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		Key:       strings.TrimSpace(input.Key),
		AltText:   input.AltText,
		IsMain:    input.IsMain,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.ListProductImages(ctx, productID)
		if err != nil {
			return err
		}
		// first image always becomes the main one
		if len(existing) == 0 {
			image.IsMain = true
		} else if image.IsMain {
			if err := repo.ClearMainImage(ctx, productID); err != nil {
				return err
			}
		}
		return repo.CreateProductImage(ctx, image)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach image")
	}
	return image, nil
}

func (s *service) MakeMainImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if _, err := s.repo.FindProductImage(ctx, productID, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load image")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearMainImage(ctx, productID); err != nil {
			return err
		}
		return repo.SetMainImage(ctx, productID, imageID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set main image")
	}
	return nil
}

func (s *service) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	target, err := s.repo.FindProductImage(ctx, productID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load image")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		images, err := repo.ListProductImages(ctx, productID)
		if err != nil {
			return err
		}
		if len(images) <= 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete the only product image")
		}
		if err := repo.DeleteProductImage(ctx, imageID); err != nil {
			return err
		}
		// deleting the main image promotes the oldest remaining one
		if target.IsMain {
			for _, candidate := range images {
				if candidate.ID != imageID {
					return repo.SetMainImage(ctx, productID, candidate.ID)
				}
			}
		}
		return nil
	})
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid price")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price, nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

func resolveSlug(slug *string, name string) string {
	if slug != nil && strings.TrimSpace(*slug) != "" {
		return slugify(*slug)
	}
	return slugify(name)
}

func slugify(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	return strings.Trim(slugStripRe.ReplaceAllString(lowered, "-"), "-")
}
