package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, st := range OrderStatuses {
		got, err := ParseOrderStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	for _, raw := range []string{"banana", "", "shipped", "Delivered", "cancelled", " Shipped"} {
		_, err := ParseOrderStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}

func TestOrderStatus_WireValues(t *testing.T) {
	assert.Equal(t, []string{"Not Process", "Processing", "Shipped", "deliverd", "cancel"}, func() []string {
		out := make([]string, len(OrderStatuses))
		for i, s := range OrderStatuses {
			out[i] = string(s)
		}
		return out
	}())
}

func TestAnyTransition_AllowsEveryPair(t *testing.T) {
	for _, from := range OrderStatuses {
		for _, to := range OrderStatuses {
			assert.NoError(t, AnyTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.ErrorIs(t, AnyTransition(StatusShipped, "banana"), ErrValidation)
}

func TestTerminalLock(t *testing.T) {
	assert.NoError(t, TerminalLock(StatusNotProcess, StatusCancelled))
	assert.NoError(t, TerminalLock(StatusShipped, StatusDelivered))
	assert.NoError(t, TerminalLock(StatusDelivered, StatusDelivered))
	assert.ErrorIs(t, TerminalLock(StatusDelivered, StatusProcessing), ErrInvalidTransition)
	assert.ErrorIs(t, TerminalLock(StatusCancelled, StatusNotProcess), ErrInvalidTransition)
}

func TestOrder_TotalAndOwnership(t *testing.T) {
	o := &Order{
		Buyer: BuyerRef{ID: "u1"},
		Products: []ProductSnapshot{
			{Price: decimal.RequireFromString("9.99"), Quantity: 3},
			{Price: decimal.RequireFromString("0.03"), Quantity: 1},
		},
	}
	assert.True(t, o.Total().Equal(decimal.RequireFromString("30")))
	assert.True(t, o.OwnedBy("u1"))
	assert.False(t, o.OwnedBy("u2"))
	assert.False(t, o.OwnedBy(""))
}

func TestUser_Has(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.Has(CapabilityAdmin))
	assert.False(t, (&User{Role: RoleBuyer}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleAdmin}).Has(Capability("superuser")))
}
