package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductPrice(t *testing.T) {
	tests := []struct {
		name     string
		oldPrice float64
		discount bool
		want     float64
	}{
		{
			name:     "discounted product gets 30 percent off",
			oldPrice: 100,
			discount: true,
			want:     70,
		},
		{
			name:     "non-discounted product keeps old price",
			oldPrice: 100,
			discount: false,
			want:     100,
		},
		{
			name:     "zero price stays zero",
			oldPrice: 0,
			discount: true,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{OldPrice: tt.oldPrice, Discount: tt.discount}
			assert.InDelta(t, tt.want, p.Price(), 0.0001)
		})
	}
}

func TestProductToResponse(t *testing.T) {
	p := Product{Name: "Leather Wallet", OldPrice: 50, Discount: true}

	resp := p.ToResponse()

	assert.Equal(t, p.Name, resp.Name)
	assert.InDelta(t, 35, resp.Price, 0.0001)
}

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{
		Quantity: 3,
		Product:  Product{OldPrice: 10, Discount: true},
	}

	assert.InDelta(t, 21, item.Subtotal(), 0.0001)
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 2, UnitPrice: 15.5}

	assert.InDelta(t, 31, item.Subtotal(), 0.0001)
}
