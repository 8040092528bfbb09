package app

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testCustomer = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerID: testCustomer,
		Currency:   "USD",
		Items: []OrderItemInput{
			{SKU: " sku-001 ", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(in *CreateOrderInput)
		want   []string
	}{
		{
			name:   "valid request",
			mutate: func(*CreateOrderInput) {},
			want:   nil,
		},
		{
			name:   "nil customer",
			mutate: func(in *CreateOrderInput) { in.CustomerID = uuid.Nil },
			want:   []string{"invalid customer id"},
		},
		{
			name:   "blank currency",
			mutate: func(in *CreateOrderInput) { in.Currency = "   " },
			want:   []string{"currency required"},
		},
		{
			name:   "no items",
			mutate: func(in *CreateOrderInput) { in.Items = nil },
			want:   []string{"at least one item required"},
		},
		{
			name:   "zero quantity",
			mutate: func(in *CreateOrderInput) { in.Items[0].Quantity = 0 },
			want:   []string{"invalid quantity for SKU  sku-001 "},
		},
		{
			name:   "negative quantity",
			mutate: func(in *CreateOrderInput) { in.Items[0].Quantity = -1 },
			want:   []string{"invalid quantity for SKU  sku-001 "},
		},
		{
			name:   "quantity at upper bound",
			mutate: func(in *CreateOrderInput) { in.Items[0].Quantity = 10_000 },
			want:   nil,
		},
		{
			name:   "quantity above upper bound",
			mutate: func(in *CreateOrderInput) { in.Items[0].Quantity = 10_001 },
			want:   []string{"invalid quantity for SKU  sku-001 "},
		},
		{
			name:   "zero price",
			mutate: func(in *CreateOrderInput) { in.Items[0].UnitPrice = decimal.Zero },
			want:   []string{"invalid price for SKU  sku-001 "},
		},
		{
			name:   "price at storage scale",
			mutate: func(in *CreateOrderInput) { in.Items[0].UnitPrice = decimal.RequireFromString("0.0001") },
			want:   nil,
		},
		{
			name:   "price below storage scale",
			mutate: func(in *CreateOrderInput) { in.Items[0].UnitPrice = decimal.RequireFromString("0.00001") },
			want:   []string{"invalid price for SKU  sku-001 "},
		},
		{
			name:   "price with too many decimals",
			mutate: func(in *CreateOrderInput) { in.Items[0].UnitPrice = decimal.RequireFromString("10.12345") },
			want:   []string{"invalid price for SKU  sku-001 "},
		},
		{
			name:   "trailing zeros beyond scale",
			mutate: func(in *CreateOrderInput) { in.Items[0].UnitPrice = decimal.RequireFromString("10.000000") },
			want:   nil,
		},
		{
			name: "every rule reported",
			mutate: func(in *CreateOrderInput) {
				in.CustomerID = uuid.Nil
				in.Currency = ""
				in.Items = []OrderItemInput{
					{SKU: "A", Quantity: 0, UnitPrice: decimal.NewFromInt(-1)},
					{SKU: "B", Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
					{SKU: "C", Quantity: 20_000, UnitPrice: decimal.NewFromInt(1)},
				}
			},
			want: []string{
				"invalid customer id",
				"currency required",
				"invalid quantity for SKU A",
				"invalid price for SKU A",
				"invalid quantity for SKU C",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validInput()
			tt.mutate(&in)
			assert.Equal(t, tt.want, slices.Collect(Validate(in)))
		})
	}
}

func TestValidate_StopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	in := CreateOrderInput{}
	var got []string
	for msg := range Validate(in) {
		got = append(got, msg)
		break
	}
	assert.Equal(t, []string{"invalid customer id"}, got)
}

func BenchmarkValidate(b *testing.B) {
	in := validInput()
	for i := 0; i < 20; i++ {
		in.Items = append(in.Items, OrderItemInput{SKU: "sku", Quantity: i + 1, UnitPrice: decimal.NewFromInt(3)})
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for range Validate(in) {
		}
	}
}
