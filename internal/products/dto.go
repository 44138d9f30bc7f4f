package product

import (
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	GenericName    string          `json:"genericName"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Company        string          `json:"company"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Discount       decimal.Decimal `json:"discount"`
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	ImageURL       *string         `json:"imageUrl,omitempty"`
	SellerEmail    string          `json:"sellerEmail"`
	SellerName     string          `json:"sellerName"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	GenericName string
	Description string
	Category    string
	Company     string
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	ImageURL    *string
	SellerName  string
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies the percentage discount to the unit price, rounded to cents.
func EffectivePrice(p *models.Product) decimal.Decimal {
	if p.Discount.IsZero() {
		return p.UnitPrice
	}
	factor := hundred.Sub(p.Discount).Div(hundred)
	return p.UnitPrice.Mul(factor).Round(2)
}

func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		GenericName:    p.GenericName,
		Description:    p.Description,
		Category:       p.Category,
		Company:        p.Company,
		UnitPrice:      p.UnitPrice,
		Discount:       p.Discount,
		EffectivePrice: EffectivePrice(p),
		ImageURL:       p.ImageURL,
		SellerEmail:    p.SellerEmail,
		SellerName:     p.SellerName,
		CreatedAt:      p.CreatedAt,
	}
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
