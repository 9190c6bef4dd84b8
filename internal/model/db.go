package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	UID       string    `gorm:"primaryKey;size:128;not null" json:"uid" bson:"uid"` // external auth subject id
	Name      string    `gorm:"size:128" json:"name" bson:"name"`
	Email     string    `gorm:"size:256;index" json:"email" bson:"email"`
	PhotoURL  string    `gorm:"size:512" json:"photo_url" bson:"photo_url"`
	Roles     Roles     `gorm:"type:text;not null" json:"roles" bson:"roles"`
	Verified  bool      `gorm:"not null;default:false" json:"verified" bson:"verified"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Category struct {
	ID    string `gorm:"primaryKey;size:64;not null" json:"_id" bson:"_id"`
	Name  string `gorm:"size:128;not null" json:"name" bson:"name"`
	Image string `gorm:"size:512" json:"image" bson:"image"`
}

type Product struct {
	ID          string `gorm:"primaryKey;size:64;not null" json:"_id" bson:"_id"`
	SellerUID   string `gorm:"size:128;index;not null" json:"seller_uid" bson:"seller_uid"`
	SellerName  string `gorm:"size:128" json:"seller_name" bson:"seller_name"`
	CategoryID  string `gorm:"size:64;index;not null" json:"category_id" bson:"category_id"`
	Name        string `gorm:"size:256;not null" json:"name" bson:"name"`
	Description string `gorm:"type:text" json:"description" bson:"description"`
	Condition   string `gorm:"size:32" json:"condition" bson:"condition"` // excellent, good, fair
	Location    string `gorm:"size:128" json:"location" bson:"location"`
	Phone       string `gorm:"size:32" json:"phone" bson:"phone"`
	Image       string `gorm:"size:512" json:"image" bson:"image"`

	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" bson:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"original_price" bson:"original_price"`
	YearsOfUse    int32           `json:"years_of_use" bson:"years_of_use"`
	PostedAt      time.Time       `gorm:"index" json:"posted_at" bson:"posted_at"`

	Booked     bool `gorm:"index;not null;default:false" json:"booked" bson:"booked"`
	Advertised bool `gorm:"index;not null;default:false" json:"advertised" bson:"advertised"`
	Paid       bool `gorm:"index;not null;default:false" json:"paid" bson:"paid"`
	Verified   bool `gorm:"not null;default:false" json:"verified" bson:"verified"` // mirrors the seller
}

// Booking is identified by (ProductID, BuyerUID).
type Booking struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"_id" bson:"_id"`
	ProductID string    `gorm:"size:64;not null;uniqueIndex:idx_booking_product_buyer" json:"product_id" bson:"product_id"`
	BuyerUID  string    `gorm:"size:128;not null;uniqueIndex:idx_booking_product_buyer;index" json:"buyer_uid" bson:"buyer_uid"`
	Details   Details   `gorm:"type:text" json:"details" bson:"details"`
	Paid      bool      `gorm:"not null;default:false" json:"paid" bson:"paid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// WishlistEntry is identified by (ProductID, SellerUID, BuyerUID).
type WishlistEntry struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"_id" bson:"_id"`
	ProductID string    `gorm:"size:64;not null;uniqueIndex:idx_wishlist_product_seller_buyer" json:"product_id" bson:"product_id"`
	SellerUID string    `gorm:"size:128;not null;uniqueIndex:idx_wishlist_product_seller_buyer;index" json:"seller_uid" bson:"seller_uid"`
	BuyerUID  string    `gorm:"size:128;not null;uniqueIndex:idx_wishlist_product_seller_buyer;index" json:"buyer_uid" bson:"buyer_uid"`
	Details   Details   `gorm:"type:text" json:"details" bson:"details"`
	Paid      bool      `gorm:"not null;default:false" json:"paid" bson:"paid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (WishlistEntry) TableName() string {
	return "wishlist"
}

// Payment is append-only.
type Payment struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"_id" bson:"_id"`
	ProductID string    `gorm:"size:64;index;not null" json:"product_id" bson:"product_id"`
	Payload   Details   `gorm:"type:text" json:"payload" bson:"payload"` // provider payload, stored as received
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type WishlistItemWithProduct struct {
	WishlistEntry
	Product *Product `json:"product"`
}
