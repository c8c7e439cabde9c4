package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/domain/entity"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "$0"},
		{5, "$5"},
		{500, "$500"},
		{3500, "$3.500"},
		{45000, "$45.000"},
		{1234567, "$1.234.567"},
		{-3500, "-$3.500"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatAmount(tc.in))
	}
}

func TestItemizedBlock(t *testing.T) {
	oc := application.OrderConfirmation{
		Lines: []entity.OrderLine{
			{Title: "Blue Train", Artist: "John Coltrane", Quantity: 2, UnitPrice: 4000},
			{Title: "Kind of Blue", Artist: "Miles Davis", Quantity: 1, UnitPrice: 6000},
		},
		Total: 14000,
		Date:  time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	block := itemizedBlock(oc)

	assert.Contains(t, block, "Title: Blue Train")
	assert.Contains(t, block, "Quantity: 2")
	assert.Contains(t, block, "Subtotal: $8.000")
	assert.Contains(t, block, "Title: Kind of Blue")
	assert.Contains(t, block, "Unit price: $6.000")
	assert.Equal(t, 2, strings.Count(block, "Artist:"))
}
