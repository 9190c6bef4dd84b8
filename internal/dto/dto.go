package dto

import "github.com/shopspring/decimal"

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type AuthResponse struct {
	Error     bool   `json:"error"`
	AuthToken string `json:"authtoken"`
}

type CreateUserRequest struct {
	UID      string   `json:"uid"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	PhotoURL string   `json:"photo_url"`
	Role     string   `json:"role"` // single-role signup form
	Roles    []string `json:"roles"`
}

type VerifyUserRequest struct {
	UID      string `json:"uid"`
	Verified *bool  `json:"verified"` // defaults to true
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id"`
	Description   string          `json:"description"`
	Condition     string          `json:"condition"`
	Location      string          `json:"location"`
	Phone         string          `json:"phone"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	YearsOfUse    int32           `json:"years_of_use"`
}

type AdvertiseRequest struct {
	ProductID  string `json:"product_id"`
	Advertised *bool  `json:"advertised"` // defaults to true
}

type PaymentIntentRequest struct {
	Price decimal.Decimal `json:"price"`
}

type DeleteResponse struct {
	Error        bool  `json:"error"`
	DeletedCount int64 `json:"deletedCount"`
}
