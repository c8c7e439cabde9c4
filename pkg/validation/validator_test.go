package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutForm struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required,localphone"`
	Password      string `json:"password" binding:"omitempty,pwd"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=debit credit cash"`
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(checkoutForm{
		Email:         "not-an-email",
		Phone:         "12345",
		Password:      "ab",
		PaymentMethod: "bitcoin",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Contains(t, details, "phone")
	assert.Contains(t, details, "password")
	assert.Contains(t, details["payment_method"], "debit credit cash")
}

func TestLocalphoneRejectsSignedNumbers(t *testing.T) {
	Init()
	for _, phone := range []string{"-12345678", "+12345678", " 12345678"} {
		err := binding.Validator.ValidateStruct(checkoutForm{
			Name:          "Rita Morales",
			Email:         "rita@example.com",
			Phone:         phone,
			PaymentMethod: "cash",
		})
		require.Error(t, err, "phone %q should not validate", phone)
		assert.Contains(t, ToDetails(err), "phone")
	}
}

type priceForm struct {
	Price int64 `json:"price" binding:"gte=0"`
}

func TestZeroPriceIsValid(t *testing.T) {
	Init()
	assert.NoError(t, binding.Validator.ValidateStruct(priceForm{Price: 0}))
	err := binding.Validator.ValidateStruct(priceForm{Price: -1})
	require.Error(t, err)
	assert.Equal(t, "must be greater than or equal to 0", ToDetails(err)["price"])
}

func TestToDetailsAcceptsValidForm(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(checkoutForm{
		Name:          "Rita Morales",
		Email:         "rita@example.com",
		Phone:         "966189340",
		Password:      "secret123",
		PaymentMethod: "cash",
	})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(err))
}

func TestToDetailsFallback(t *testing.T) {
	details := ToDetails(assert.AnError)
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, details)
}
