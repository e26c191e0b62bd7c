package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

// ProductFilters narrows public product listings.
type ProductFilters struct {
	CategorySlug string
	Search       string
	MinPrice     *string
	MaxPrice     *string
}

// AdminProductStatus filters the admin product list.
type AdminProductStatus string

const (
	AdminProductStatusAvailable   AdminProductStatus = "available"
	AdminProductStatusUnavailable AdminProductStatus = "unavailable"
	AdminProductStatusFeatured    AdminProductStatus = "featured"
	AdminProductStatusLowStock    AdminProductStatus = "low_stock"
)

// LowStockThreshold is the cutoff for the low_stock admin filter.
const LowStockThreshold = 5

// ProductPage is one cursor page of products.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

// Repository defines persistence operations for catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductPage, error)
	ListAdminProducts(ctx context.Context, params pagination.Params, status AdminProductStatus) (*ProductPage, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindRelatedProducts(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]models.Product, error)
	FindFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	SearchSuggestions(ctx context.Context, prefix string, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProductImage(ctx context.Context, image *models.ProductImage) error
	FindProductImage(ctx context.Context, productID, imageID uuid.UUID) (*models.ProductImage, error)
	ListProductImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error)
	ClearMainImage(ctx context.Context, productID uuid.UUID) error
	SetMainImage(ctx context.Context, productID, imageID uuid.UUID) error
	DeleteProductImage(ctx context.Context, imageID uuid.UUID) error
}
