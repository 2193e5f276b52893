package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscount_UsableAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name string
		d    Discount
		want bool
	}{
		{"active without window", Discount{Active: true}, true},
		{"inactive", Discount{Active: false}, false},
		{"inside window", Discount{Active: true, ValidFrom: &before, ValidTo: &after}, true},
		{"not started", Discount{Active: true, ValidFrom: &after}, false},
		{"expired", Discount{Active: true, ValidTo: &before}, false},
		{"ends exactly now", Discount{Active: true, ValidTo: &now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.UsableAt(now))
		})
	}
}

func TestAddress_OneLine(t *testing.T) {
	a := Address{Street: " 1 Main St ", City: "Springfield", State: "", PostalCode: "12345", Country: "US"}
	assert.Equal(t, "1 Main St, Springfield, 12345, US", a.OneLine())
	assert.Equal(t, "", Address{}.OneLine())
}

func TestOrder_HasDiscount(t *testing.T) {
	pct := decimal.NewFromInt(20)

	assert.False(t, Order{}.HasDiscount())
	assert.False(t, Order{DiscountCode: "SAVE20"}.HasDiscount())
	assert.True(t, Order{DiscountCode: "SAVE20", DiscountPercentage: &pct}.HasDiscount())
}

func TestPet_IsAvailable(t *testing.T) {
	assert.True(t, Pet{Status: PetStatusAvailable}.IsAvailable())
	assert.False(t, Pet{Status: PetStatusSold}.IsAvailable())
	assert.False(t, Pet{Status: PetStatusPending}.IsAvailable())
}

func TestAuditAction_Valid(t *testing.T) {
	assert.True(t, AuditActionUpdateOrderStatus.Valid())
	assert.True(t, AuditActionChangePetStatus.Valid())
	assert.False(t, AuditAction("cancel_order").Valid())
	assert.False(t, AuditAction("").Valid())
}

func TestAuditLog_Resource(t *testing.T) {
	l := AuditLog{ResourceType: AuditResourcePet, ResourceID: 4}
	assert.Equal(t, PetResource(4), l.Resource())
	assert.NotEqual(t, OrderResource(4), l.Resource())
}
