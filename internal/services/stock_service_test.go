package services_test

import (
	"errors"
	"testing"

	"bluewud/internal/models"
	"bluewud/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStockService_ValidateStock_AllAvailable(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Name: "Bookshelf", Stock: 10}, nil)
	mockRepo.On("GetByID", "prod-2").Return(&models.Product{ID: "prod-2", Name: "Shoe Rack", Stock: 4}, nil)

	result := service.ValidateStock([]models.CartItem{
		{ProductID: "prod-1", Name: "Bookshelf", Quantity: 2},
		{ProductID: "prod-2", Name: "Shoe Rack", Quantity: 4},
	})

	assert.True(t, result.OK)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ValidateStock_InsufficientStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Name: "Bookshelf", Stock: 2}, nil)

	result := service.ValidateStock([]models.CartItem{
		{ProductID: "prod-1", Name: "Bookshelf", Quantity: 3},
	})

	assert.False(t, result.OK)
	assert.False(t, result.Missing)
	assert.Equal(t, "Bookshelf", result.ProductName)
	assert.Equal(t, 2, result.Available)
}

func TestStockService_ValidateStock_MissingProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", "prod-gone").Return(nil, errors.New("product not found"))

	result := service.ValidateStock([]models.CartItem{
		{ProductID: "prod-gone", Name: "Discontinued TV Unit", Quantity: 1},
	})

	assert.False(t, result.OK)
	assert.True(t, result.Missing)
	assert.Equal(t, "Discontinued TV Unit", result.ProductName)
}

func TestStockService_ValidateStock_FailsFast(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", "prod-1").Return(&models.Product{ID: "prod-1", Name: "Bookshelf", Stock: 0}, nil)

	result := service.ValidateStock([]models.CartItem{
		{ProductID: "prod-1", Name: "Bookshelf", Quantity: 1},
		{ProductID: "prod-2", Name: "Shoe Rack", Quantity: 1},
	})

	assert.False(t, result.OK)
	assert.Equal(t, "Bookshelf", result.ProductName)
	// The second line is never checked.
	mockRepo.AssertNotCalled(t, "GetByID", "prod-2")
}
