package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for API responses. Field names follow the storefront wire format
// (snake_case, decimal money as strings).

type ShopDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	URL    string    `json:"url,omitempty"`
	Active bool      `json:"active"`
}

type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProductDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Model    string    `json:"model,omitempty"`
	Category string    `json:"category"`
}

type OfferParameterDTO struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

type OfferDTO struct {
	ID         uuid.UUID           `json:"id"`
	Product    ProductDTO          `json:"product"`
	Shop       ShopDTO             `json:"shop"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	Price      decimal.Decimal     `json:"price"`
	PriceRRC   decimal.Decimal     `json:"price_rrc"`
	Parameters []OfferParameterDTO `json:"product_parameters,omitempty"`
}

type OrderItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	Offer      OfferDTO        `json:"product_info"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderDTO struct {
	ID        uuid.UUID       `json:"id"`
	Status    OrderStatus     `json:"status"`
	CreatedAt string          `json:"created_at"` // ISO 8601
	UpdatedAt string          `json:"updated_at"` // ISO 8601
	Contact   *ContactDTO     `json:"contact,omitempty"`
	Items     []OrderItemDTO  `json:"ordered_items"`
	TotalSum  decimal.Decimal `json:"total_sum"`
}

type ContactDTO struct {
	ID         uuid.UUID   `json:"id"`
	Type       ContactType `json:"type"`
	Phone      string      `json:"phone,omitempty"`
	City       string      `json:"city,omitempty"`
	Street     string      `json:"street,omitempty"`
	House      string      `json:"house,omitempty"`
	Apartment  string      `json:"apartment,omitempty"`
	PostalCode string      `json:"postal_code,omitempty"`
	Value      string      `json:"value"` // computed display line
}

type UserDTO struct {
	ID             uuid.UUID    `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	FirstName      string       `json:"first_name,omitempty"`
	LastName       string       `json:"last_name,omitempty"`
	Type           UserType     `json:"user_type"`
	Company        string       `json:"company,omitempty"`
	Position       string       `json:"position,omitempty"`
	EmailConfirmed bool         `json:"email_confirmed"`
	Contacts       []ContactDTO `json:"contacts,omitempty"`
}

// Request types, validated with go-playground/validator.

type RegisterRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=30"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8,max=72"`
	FirstName string   `json:"first_name" validate:"omitempty,max=100"`
	LastName  string   `json:"last_name" validate:"omitempty,max=100"`
	UserType  UserType `json:"user_type" validate:"omitempty,oneof=buyer supplier"`
	Company   string   `json:"company" validate:"omitempty,max=100"`
	Position  string   `json:"position" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPairResponse is the login payload: a JWT pair plus the user
type TokenPairResponse struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    UserDTO `json:"user"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Company   string `json:"company" validate:"omitempty,max=100"`
	Position  string `json:"position" validate:"omitempty,max=100"`
}

type AddBasketItemRequest struct {
	OfferID  uuid.UUID `json:"product_info_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gte=1"`
}

type UpdateBasketItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type ConfirmOrderRequest struct {
	BasketID  uuid.UUID `json:"basket_id" validate:"required"`
	ContactID uuid.UUID `json:"contact_id" validate:"required"`
}

type CreateContactRequest struct {
	Type       ContactType `json:"type" validate:"required,oneof=phone address"`
	Phone      string      `json:"phone" validate:"omitempty,max=20"`
	City       string      `json:"city" validate:"omitempty,max=50"`
	Street     string      `json:"street" validate:"omitempty,max=100"`
	House      string      `json:"house" validate:"omitempty,max=15"`
	Apartment  string      `json:"apartment" validate:"omitempty,max=15"`
	PostalCode string      `json:"postal_code" validate:"omitempty,max=20"`
}

type UpdateContactRequest struct {
	Type       ContactType `json:"type" validate:"required,oneof=phone address"`
	Phone      string      `json:"phone" validate:"omitempty,max=20"`
	City       string      `json:"city" validate:"omitempty,max=50"`
	Street     string      `json:"street" validate:"omitempty,max=100"`
	House      string      `json:"house" validate:"omitempty,max=15"`
	Apartment  string      `json:"apartment" validate:"omitempty,max=15"`
	PostalCode string      `json:"postal_code" validate:"omitempty,max=20"`
}

// ConfirmOrderResponse mirrors the storefront confirmation payload
type ConfirmOrderResponse struct {
	Status   bool            `json:"status"`
	Message  string          `json:"message"`
	OrderID  uuid.UUID       `json:"order_id"`
	TotalSum decimal.Decimal `json:"total_sum"`
}

// StatusResponse is the generic {status, message/error} envelope
type StatusResponse struct {
	Status  bool              `json:"status"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
