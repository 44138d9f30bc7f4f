package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/medmart-backend/api/responses"
	"github.com/angelmondragon/medmart-backend/api/validators"
	productsvc "github.com/angelmondragon/medmart-backend/internal/products"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/angelmondragon/medmart-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	GenericName string          `json:"genericName" validate:"max=200"`
	Description string          `json:"description" validate:"max=4000"`
	Category    string          `json:"category" validate:"required,max=100"`
	Company     string          `json:"company" validate:"max=200"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	ImageURL    *string         `json:"imageUrl,omitempty" validate:"omitempty,url"`
	SellerName  string          `json:"sellerName" validate:"max=128"`
}

func (p createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		Name:        validators.SanitizeString(p.Name, 200),
		GenericName: validators.SanitizeString(p.GenericName, 200),
		Description: validators.SanitizeString(p.Description, 4000),
		Category:    validators.SanitizeString(p.Category, 100),
		Company:     validators.SanitizeString(p.Company, 200),
		UnitPrice:   p.UnitPrice,
		Discount:    p.Discount,
		ImageURL:    p.ImageURL,
		SellerName:  validators.SanitizeString(p.SellerName, 128),
	}
}

// SellerCreateProduct lists a new product under the calling seller.
func SellerCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		seller, err := callerEmail(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), seller, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, product)
	}
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListSellerProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := pathEmail(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListSellerProducts(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
