package services_test

import (
	"context"
	"fmt"
	"testing"

	"cafe/internal/models"
	"cafe/internal/repositories"
	"cafe/internal/services"
	"cafe/pkg/imagestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	expectedProducts := []models.Product{
		{ID: "1", Name: "Latte", Price: 45000},
		{ID: "2", Name: "Mocha", Price: 50000},
	}
	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	newProduct := &models.Product{ID: "client-chosen", Name: "Tea", Price: -1}
	mockRepo.On("Create", ctx, newProduct).Return(nil).Once()
	assert.NoError(t, service.CreateProduct(ctx, newProduct))
	assert.Empty(t, newProduct.ID, "ids are assigned by the store")

	mockRepo.On("Create", ctx, newProduct).Return(fmt.Errorf("database error")).Once()
	err := service.CreateProduct(ctx, newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	update := &models.Product{Name: "Tea", Price: 10}
	stored := &models.Product{ID: "p1", Name: "Tea", Price: 10}
	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool { return p.ID == "p1" })).Return(nil).Once()
	mockRepo.On("GetByID", ctx, "p1").Return(stored, nil).Once()

	got, err := service.UpdateProduct(ctx, "p1", update)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	mockRepo.On("Update", ctx, mock.Anything).Return(fmt.Errorf("product: %w", repositories.ErrNotFound)).Once()
	_, err = service.UpdateProduct(ctx, "missing", &models.Product{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductService_DeleteProductQueuesImage(t *testing.T) {
	mockRepo := new(MockProductRepository)
	queue := new(MockCleanupQueue)
	service := services.NewProductService(mockRepo, nil, queue)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", ImagePublicID: "products/p1"}, nil)
	queue.On("Enqueue", ctx, "products/p1").Return(nil).Once()
	mockRepo.On("Delete", ctx, "p1").Return(nil).Once()

	require.NoError(t, service.DeleteProduct(ctx, "p1"))
	queue.AssertExpectations(t)
	mockRepo.AssertExpectations(t)

	mockRepo.On("GetByID", ctx, "gone").Return(nil, fmt.Errorf("product: %w", repositories.ErrNotFound))
	assert.ErrorIs(t, service.DeleteProduct(ctx, "gone"), repositories.ErrNotFound)
}

func TestProductService_UploadImage(t *testing.T) {
	up := new(MockUploader)
	service := services.NewProductService(new(MockProductRepository), up, nil)
	ctx := context.Background()

	up.On("UploadBase64", ctx, "abc", "products").Return(imagestore.Asset{URL: "u", PublicID: "products/x"}, nil).Once()
	asset, err := service.UploadImage(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "products/x", asset.PublicID)

	_, err = service.UploadImage(ctx, " ")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCategoryService(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := services.NewCategoryService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(c *models.Category) bool { return c.Name == "Coffee" })).Return(nil).Once()
	cat, err := service.CreateCategory(ctx, "  Coffee ")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", cat.Name)

	_, err = service.CreateCategory(ctx, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	repo.On("Update", ctx, &models.Category{ID: "c1", Name: "Tea"}).Return(fmt.Errorf("category: %w", repositories.ErrConflict)).Once()
	_, err = service.RenameCategory(ctx, "c1", "Tea")
	assert.ErrorIs(t, err, repositories.ErrConflict)

	repo.On("Delete", ctx, "c1").Return(nil).Once()
	assert.NoError(t, service.DeleteCategory(ctx, "c1"))
	repo.AssertExpectations(t)
}
