package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
)

// --- Custom Service Errors for Products ---
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductValidation = errors.New("product data validation error")
)

// --- Product DTOs ---
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Category      *string `json:"category"`
	Price         float64 `json:"price" binding:"required"`
	StockQuantity *int    `json:"stockQuantity"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stockQuantity"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(page, pageSize int, category *string, searchTerm *string) ([]models.Product, int, error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
}

// --- productService Implementation ---
type productService struct {
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(pr repositories.ProductRepository, db *sql.DB) ProductService {
	return &productService{productRepo: pr, db: db}
}

func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrProductValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrProductValidation)
	}
	stock := 0
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: stock quantity cannot be negative", ErrProductValidation)
		}
		stock = *req.StockQuantity
	}

	product := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		Category:      req.Category,
		Price:         req.Price,
		StockQuantity: stock,
	}

	created, err := s.productRepo.CreateProduct(s.db, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

func (s *productService) GetProducts(page, pageSize int, category *string, searchTerm *string) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	products, totalItems, err := s.productRepo.GetProducts(page, pageSize, category, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalItems, nil
}

func (s *productService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	fields := &repositories.Fields{}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrProductValidation)
		}
		fields.Set("name", strings.TrimSpace(*req.Name))
	}
	if req.Category != nil {
		fields.Set("category", req.Category)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrProductValidation)
		}
		fields.Set("price", *req.Price)
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: stock quantity cannot be negative", ErrProductValidation)
		}
		fields.Set("stockQuantity", *req.StockQuantity)
	}

	if fields.Len() == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrProductValidation)
	}

	updated, err := s.productRepo.UpdateProduct(s.db, productID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (s *productService) DeleteProduct(productID int64) error {
	err := s.productRepo.DeleteProduct(s.db, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
