package dto

import "github.com/shopspring/decimal"

type AddCartItemRequest struct {
	CourseID string `json:"course_id"`
	Quantity int32  `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type CartLine struct {
	CourseID  string          `json:"course_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
	Quantity  int32           `json:"quantity"`
}

type CartResponse struct {
	Items []CartLine `json:"items"`
	// Excluded lines are priced in a currency the checkout does not accept;
	// they are shown so the buyer is never silently over- or undercharged.
	Excluded []CartLine      `json:"excluded"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

type CheckoutRequest struct {
	Locale string `json:"locale"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type IdentityResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type CourseResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}
