package handler

import (
	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/core/ports"
)

// --- Request → Service input ---

func toCheckoutInput(req checkoutRequest, buyerID string) ports.CheckoutInput {
	items := make([]ports.CheckoutItem, len(req.Products))
	for i, p := range req.Products {
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		items[i] = ports.CheckoutItem{ProductID: p.ProductID, Quantity: qty}
	}
	return ports.CheckoutInput{
		BuyerID: buyerID,
		Items:   items,
		Payment: domain.Payment{Success: req.Payment.Success, Details: req.Payment.Details},
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
		Role:    int(u.Role),
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	products := make([]productSnapshotResponse, len(o.Products))
	for i, p := range o.Products {
		products[i] = productSnapshotResponse{
			ID:       p.ProductID,
			Name:     p.Name,
			Price:    p.Price.InexactFloat64(),
			Quantity: p.Quantity,
		}
	}

	var history []statusHistoryItemResponse
	for _, h := range o.StatusHistory {
		history = append(history, statusHistoryItemResponse{
			Status: string(h.Status),
			At:     h.At.UTC(),
			By:     h.By,
		})
	}

	return orderResponse{
		ID:     o.ID,
		Status: string(o.Status),
		Buyer: buyerResponse{
			ID:   o.Buyer.ID,
			Name: o.Buyer.Name,
		},
		Products: products,
		Payment: paymentResponse{
			Success: o.Payment.Success,
			Details: o.Payment.Details,
		},
		Total:         o.Total().InexactFloat64(),
		CreateAt:      o.CreateAt.UTC(),
		StatusHistory: history,
	}
}

func toOrderListResponse(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}
