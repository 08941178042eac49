package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type CatalogService struct {
	products store.ProductStore
	uploader ImageUploader
	log      *zap.Logger
}

func NewCatalogService(products store.ProductStore, uploader ImageUploader, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, uploader: uploader, log: log}
}

type CreateProductInput struct {
	Code          string          `json:"productCode" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Discount      int             `json:"discount"`
	Stock         int             `json:"stock"`
	Images        []string        `json:"images"`
	Colors        []string        `json:"colors"`
	Ram           []string        `json:"ram"`
	Storage       []string        `json:"storage"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (models.Product, error) {
	category := strings.ToLower(strings.TrimSpace(in.Category))
	switch {
	case strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "":
		return models.Product{}, Validation("Product code and name are required")
	case !models.ValidCategory(category):
		return models.Product{}, Validation("Invalid category")
	case in.Price.IsNegative() || in.OriginalPrice.IsNegative():
		return models.Product{}, Validation("Price cannot be negative")
	case in.Discount < 0 || in.Discount > 100:
		return models.Product{}, Validation("Discount must be between 0 and 100")
	}
	if in.OriginalPrice.IsZero() {
		in.OriginalPrice = in.Price
	}

	product, err := s.products.CreateProduct(ctx, models.Product{
		Code:          strings.TrimSpace(in.Code),
		Name:          strings.TrimSpace(in.Name),
		Category:      category,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Discount:      in.Discount,
		Stock:         in.Stock,
		Images:        in.Images,
		Colors:        in.Colors,
		Ram:           in.Ram,
		Storage:       in.Storage,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return models.Product{}, Validation("Product code already exists")
	}
	if err != nil {
		return models.Product{}, Unexpected("Error creating product", err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, code string) (models.Product, error) {
	product, err := s.products.FindProductByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, NotFound("Product not found")
	}
	if err != nil {
		return models.Product{}, Unexpected("Error fetching product", err)
	}
	return product, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.products.ListProductsByCategory(ctx, strings.ToLower(category))
	if err != nil {
		return nil, Unexpected("Error fetching products", err)
	}
	return products, nil
}

// ImageFile is one uploaded file handed over by the transport layer.
type ImageFile struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// AddImages uploads files and appends the URLs of the ones that succeeded.
// Failed file names are returned alongside the updated product.
func (s *CatalogService) AddImages(ctx context.Context, code string, files []ImageFile, keyFor func(ImageFile) string) (models.Product, []string, error) {
	if s.uploader == nil {
		return models.Product{}, nil, Unexpected("Image storage is not configured", errors.New("no uploader"))
	}
	if len(files) == 0 {
		return models.Product{}, nil, Validation("No files uploaded")
	}
	product, err := s.GetProduct(ctx, code)
	if err != nil {
		return models.Product{}, nil, err
	}

	var failed []string
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			s.log.Warn("open upload failed", zap.String("file", file.Name), zap.Error(err))
			failed = append(failed, file.Name)
			continue
		}
		url, err := s.uploader.Upload(ctx, keyFor(file), file.ContentType, f)
		f.Close()
		if err != nil {
			s.log.Warn("image upload failed", zap.String("file", file.Name), zap.Error(err))
			failed = append(failed, file.Name)
			continue
		}
		product.Images = append(product.Images, url)
	}

	product, err = s.products.SaveProduct(ctx, product)
	if err != nil {
		return models.Product{}, failed, Unexpected("Error saving product images", err)
	}
	return product, failed, nil
}
