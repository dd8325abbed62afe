package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ==========================================
// CATALOG
// ==========================================

// Product is the catalog entry the cashier view sells from. Discount is a
// percentage in [0,100]; a 0-1 fraction representation is rejected at the
// API boundary, never converted.
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductCode     string          `gorm:"not null;unique" json:"productCode"`
	ProductName     string          `gorm:"not null" json:"productName"`
	Category        string          `gorm:"not null" json:"category"`
	SellingPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sellingPrice"`
	Discount        decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount"`
	QuantityInStock int             `gorm:"not null;default:0" json:"quantityInStock"`
	MinStock        int             `gorm:"not null;default:0" json:"minStock"`
	ImageURL        string          `json:"imageURL"`
	CreatedAt       time.Time       `gorm:"default:now()" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"default:now()" json:"updatedAt"`
}

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryName string    `gorm:"not null;unique" json:"categoryName"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `gorm:"default:now()" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"default:now()" json:"updatedAt"`
}

// ==========================================
// ORDERS
// ==========================================

type OrderStatus string

const (
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// Order is the immutable record of a completed sale. Item snapshots are
// frozen at checkout; later catalog edits must never reach back into them.
type Order struct {
	ID            uint             `gorm:"primaryKey" json:"-"`
	OrderCode     string           `gorm:"not null;unique" json:"orderId"`
	Username      string           `gorm:"not null" json:"username"`
	Items         []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	Discount      decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	PaymentMethod string           `gorm:"not null" json:"paymentMethod"`
	CashReceived  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"cashReceived,omitempty"`
	ChangeGiven   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"changeGiven,omitempty"`
	Status        OrderStatus      `gorm:"type:varchar(20);not null" json:"status"`
	Date          time.Time        `gorm:"default:now()" json:"date"`
}

// OrderItem snapshots name, price and discount as they were at sale time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   uint            `gorm:"not null;index" json:"-"`
	Order     Order           `gorm:"foreignKey:OrderID" json:"-"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Discount  decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"lineTotal"`
}

// ==========================================
// AUTH & USERS
// ==========================================

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"not null;unique" json:"username"`
	// The hash never leaves the server.
	Password string `gorm:"column:password_hash;not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null" json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}
