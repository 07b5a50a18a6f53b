package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\-\s()]*$`)
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"     json:"user_id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"            json:"-"`
	Name         string    `gorm:"size:100"                     json:"name"`
	PhoneNumber  string    `gorm:"size:20"                      json:"phone_number"`
	Role         Role      `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the fields a client can supply. Uniqueness is the
// store's job, this only covers shape.
func (u *User) Validate() error {
	if n := len(strings.TrimSpace(u.Username)); n < 3 || n > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	if !emailRe.MatchString(u.Email) {
		return errors.New("email is not valid")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash must not be empty")
	}
	if u.PhoneNumber != "" && !phoneRe.MatchString(u.PhoneNumber) {
		return errors.New("phone number contains invalid characters")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	return nil
}

func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"product_id"`
	Name          string    `gorm:"size:100;not null"        json:"name"`
	Description   string    `gorm:"type:text"                json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	StockQuantity int       `gorm:"not null"                 json:"stock_quantity"`
	ImageURL      string    `gorm:"type:text"                json:"image_url"`
	Active        bool      `gorm:"not null;default:true"    json:"active"`
	CategoryID    *uint     `json:"category_id"`
	BrandID       *uint     `json:"brand_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	Reference string    `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	UserID    uint      `gorm:"index;not null"          json:"user_id"`
	Total     float64   `gorm:"not null"                json:"total"`
	Status    string    `gorm:"not null"                json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                  json:"id"`
	OrderID   uint    `gorm:"index;not null"              json:"order_id"`
	ProductID uint    `gorm:"not null"                    json:"product_id"`
	Quantity  uint    `gorm:"default:1;check:quantity>0"  json:"quantity"`
	UnitPrice float64 `gorm:"not null"                    json:"unit_price"`
}
