package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cafe/internal/cleanup"
	"cafe/internal/models"
	"cafe/internal/repositories"
	"cafe/pkg/imagestore"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo    repositories.ProductRepository
	images  imagestore.Uploader
	cleanup cleanup.Queue
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images imagestore.Uploader, queue cleanup.Queue) *ProductService {
	return &ProductService{
		repo:    repo,
		images:  images,
		cleanup: queue,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores product as given. Price and category are not checked.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = ""
	return s.repo.Create(ctx, product)
}

// UpdateProduct replaces every field of the product with the given id and
// returns the stored result.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	product.ID = id
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// DeleteProduct deletes a product. Its image is queued for deletion first.
// Carts and orders referencing it are left dangling.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product.ImagePublicID != "" && s.cleanup != nil {
		if err := s.cleanup.Enqueue(ctx, product.ImagePublicID); err != nil {
			log.Printf("Failed to queue cleanup of %s: %v", product.ImagePublicID, err)
		}
	}
	return s.repo.Delete(ctx, id)
}

// UploadImage stores a product image in the products folder.
func (s *ProductService) UploadImage(ctx context.Context, imageBase64 string) (imagestore.Asset, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return imagestore.Asset{}, validationError("imageBase64 is required")
	}
	asset, err := s.images.UploadBase64(ctx, imageBase64, "products")
	if err != nil {
		return imagestore.Asset{}, fmt.Errorf("failed to upload product image: %w", err)
	}
	return asset, nil
}

// CategoryService manages product categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetAllCategories lists categories sorted by name.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// CreateCategory adds a category. Names are unique.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("category name is required")
	}
	category := &models.Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// RenameCategory changes the name of an existing category.
func (s *CategoryService) RenameCategory(ctx context.Context, id, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("category name is required")
	}
	category := &models.Category{ID: id, Name: name}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Products keep their category value.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
