package services

import (
	"log"

	"bluewud/internal/models"
	"bluewud/internal/repositories"
)

// StockResult is the outcome of a pre-payment stock check.
type StockResult struct {
	OK          bool
	ProductName string // offending product, when not OK
	Available   int    // live stock of the offending product
	Missing     bool   // product no longer exists in the catalog
}

// StockService re-checks live inventory for every cart line immediately
// before payment. The check is advisory, not a reservation: stock can still
// change between validation and order creation.
type StockService struct {
	products repositories.ProductRepository
}

// NewStockService creates a new StockService.
func NewStockService(products repositories.ProductRepository) *StockService {
	return &StockService{
		products: products,
	}
}

// ValidateStock checks each cart line against the live product record,
// failing fast on the first line whose product is gone or short on stock.
func (s *StockService) ValidateStock(items []models.CartItem) StockResult {
	for _, item := range items {
		product, err := s.products.GetByID(item.ProductID)
		if err != nil {
			log.Printf("Stock check: product %s (%s) not available: %v", item.Name, item.ProductID, err)
			return StockResult{ProductName: item.Name, Missing: true}
		}
		if product.Stock < item.Quantity {
			log.Printf("Stock check: insufficient stock for %s (requested: %d, available: %d)",
				product.Name, item.Quantity, product.Stock)
			return StockResult{ProductName: product.Name, Available: product.Stock}
		}
	}
	return StockResult{OK: true}
}
