package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/storage"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/joelyk/maison-du-parfum/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminCredentials is the single configured back-office identity.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// ProductForm carries submitted product fields. A nil field was not submitted.
type ProductForm struct {
	Name             *string
	Price            *string
	Category         *string
	Stock            *string
	ShortDescription *string
	Description      *string
	Notes            *string
	Volume           *string
	SkinType         *string
	Audience         *string
	Image            *ImageUpload
}

type Dashboard struct {
	ProductCount int64           `json:"product_count"`
	OrderCount   int64           `json:"order_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	Products     []model.Product `json:"products"`
	Orders       []model.Order   `json:"orders"`
}

type AdminService interface {
	Authenticate(username, password string) error
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, form ProductForm) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, form ProductForm) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	Dashboard(ctx context.Context) (*Dashboard, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
}

type adminService struct {
	credentials   AdminCredentials
	hasher        *util.PasswordHasher
	productRepo   repository.ProductRepository
	orderRepo     repository.OrderRepository
	files         storage.FileStorage
	productFolder string
}

func NewAdminService(
	credentials AdminCredentials,
	hasher *util.PasswordHasher,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	files storage.FileStorage,
	productFolder string,
) AdminService {
	return &adminService{
		credentials:   credentials,
		hasher:        hasher,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		files:         files,
		productFolder: productFolder,
	}
}

func (s *adminService) Authenticate(username, password string) error {
	username = strings.TrimSpace(username)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.credentials.Username)) == 1
	passOK := s.hasher.Verify(s.credentials.PasswordHash, password)
	if !userOK || !passOK {
		logger.Warn("Admin login failed", logger.Fields{
			"username": username,
		})
		return ErrInvalidAdminLogin
	}

	logger.Info("Admin logged in")
	return nil
}

func (s *adminService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, "")
}

func (s *adminService) CreateProduct(ctx context.Context, form ProductForm) (*model.Product, error) {
	name := trimmed(form.Name)
	category := trimmed(form.Category)
	priceText := trimmed(form.Price)
	if name == "" || category == "" || priceText == "" {
		return nil, ErrMissingFields
	}

	price, ok := parsePrice(priceText)
	if !ok {
		return nil, ErrInvalidPrice
	}

	stock := 0
	if v := trimmed(form.Stock); v != "" {
		n, ok := parseStock(v)
		if !ok {
			return nil, ErrInvalidStock
		}
		stock = n
	}

	product := &model.Product{
		Name:             name,
		Price:            price,
		Category:         category,
		Stock:            stock,
		ShortDescription: optional(form.ShortDescription),
		Description:      optional(form.Description),
		Notes:            optional(form.Notes),
		Volume:           optional(form.Volume),
		SkinType:         optional(form.SkinType),
		Audience:         optional(form.Audience),
	}

	image, err := s.storeImage(ctx, form.Image, "prod_"+uuid.NewString())
	if err != nil {
		return nil, err
	}
	product.Image = image

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product created", logger.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

// UpdateProduct applies a partial update. Blank name or category keep the old value,
// submitted optional text replaces the old value (blank clears it), and price or stock
// only overwrite when they parse.
func (s *adminService) UpdateProduct(ctx context.Context, id uint, form ProductForm) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if v := trimmed(form.Name); v != "" {
		product.Name = v
	}
	if v := trimmed(form.Category); v != "" {
		product.Category = v
	}
	if v := trimmed(form.Price); v != "" {
		if price, ok := parsePrice(v); ok {
			product.Price = price
		} else {
			logger.Warn("Ignoring unparsable price", logger.Fields{"product_id": id, "price": v})
		}
	}
	if v := trimmed(form.Stock); v != "" {
		if stock, ok := parseStock(v); ok {
			product.Stock = stock
		} else {
			logger.Warn("Ignoring unparsable stock", logger.Fields{"product_id": id, "stock": v})
		}
	}

	for _, f := range []struct {
		in  *string
		dst **string
	}{
		{form.ShortDescription, &product.ShortDescription},
		{form.Description, &product.Description},
		{form.Notes, &product.Notes},
		{form.Volume, &product.Volume},
		{form.SkinType, &product.SkinType},
		{form.Audience, &product.Audience},
	} {
		if f.in != nil {
			*f.dst = optional(f.in)
		}
	}

	image, err := s.storeImage(ctx, form.Image, fmt.Sprintf("prod_%d", product.ID))
	if err != nil {
		return nil, err
	}
	if image != nil {
		product.Image = image
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", logger.Fields{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", logger.Fields{
		"product_id": id,
	})
	return nil
}

// Dashboard sums every order total regardless of status.
func (s *adminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	orderCount, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumTotal(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		ProductCount: productCount,
		OrderCount:   orderCount,
		Revenue:      revenue,
		Products:     products,
		Orders:       orders,
	}, nil
}

func (s *adminService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Order status transition rejected", logger.Fields{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	logger.Info("Order status updated", logger.Fields{
		"order_id": orderID,
		"status":   status,
	})
	return order, nil
}

// storeImage saves an allow-listed upload as <prefix>_<name> and returns its path.
// A nil upload or a disallowed extension yields nil without error.
func (s *adminService) storeImage(ctx context.Context, upload *ImageUpload, prefix string) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	if !util.AllowedImage(upload.Filename) {
		logger.Warn("Product image ignored: extension not allowed", logger.Fields{
			"filename": upload.Filename,
		})
		return nil, nil
	}

	filename := util.SecureFilename(prefix + "_" + upload.Filename)
	if err := s.files.Save(ctx, s.productFolder, filename, upload.Body, upload.ContentType); err != nil {
		logger.Error("Failed to store product image", err, logger.Fields{
			"filename": filename,
		})
		return nil, err
	}
	stored := path.Join(s.productFolder, filename)
	return &stored, nil
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// optional maps a missing or blank value to nil.
func optional(v *string) *string {
	t := trimmed(v)
	if t == "" {
		return nil
	}
	return &t
}

func parsePrice(v string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil || price.IsNegative() {
		return decimal.Zero, false
	}
	return price.Round(2), true
}

func parseStock(v string) (int, bool) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
