package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
)

type lineItem struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type orderBody struct {
	Email string     `json:"email" validate:"required,email"`
	Role  string     `json:"role" validate:"omitempty,oneof=Buyer Seller Admin"`
	Items []lineItem `json:"cartItems" validate:"required,min=1,dive"`
}

func decode(t *testing.T, body string) (orderBody, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest orderBody
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBodyValid(t *testing.T) {
	got, err := decode(t, `{"email":"a@x.com","cartItems":[{"quantity":2}]}`)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decode(t, `{"email":"a@x.com","cartItems":[{"quantity":1}],"extra":true}`)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsNestedFieldPaths(t *testing.T) {
	_, err := decode(t, `{"email":"nope","role":"Owner","cartItems":[{"quantity":0}]}`)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be one of Buyer Seller Admin", details["role"])
	assert.Equal(t, "is required", details["cartItems[0].quantity"])
}
