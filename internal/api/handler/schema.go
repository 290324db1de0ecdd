package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Role    int    `json:"role"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

// --- Orders ---

type checkoutItemRequest struct {
	ProductID string `json:"_id"      validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type paymentRequest struct {
	Success bool           `json:"success"`
	Details map[string]any `json:"details"`
}

type checkoutRequest struct {
	Products []checkoutItemRequest `json:"products" validate:"required,min=1,dive"`
	Payment  paymentRequest        `json:"payment"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response-only types owned by the transport layer. Field names are consumed
// verbatim by the buyer and admin order screens.

type buyerResponse struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

type productSnapshotResponse struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type paymentResponse struct {
	Success bool           `json:"success"`
	Details map[string]any `json:"details,omitempty"`
}

type statusHistoryItemResponse struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	By     string    `json:"by,omitempty"`
}

type orderResponse struct {
	ID            string                      `json:"_id"`
	Status        string                      `json:"status"`
	Buyer         buyerResponse               `json:"buyer"`
	Products      []productSnapshotResponse   `json:"products"`
	Payment       paymentResponse             `json:"payment"`
	Total         float64                     `json:"total"`
	CreateAt      time.Time                   `json:"createAt"`
	StatusHistory []statusHistoryItemResponse `json:"statusHistory,omitempty"`
}
