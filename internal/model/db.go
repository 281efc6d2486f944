package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Course struct {
	ID          string          `gorm:"primaryKey;size:64;not null"`
	Title       string          `gorm:"size:255;not null"`
	Description string          `gorm:"size:1024"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:8;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartItem is one line of a buyer's cart. A cart is the set of lines for one
// buyer id; it survives sessions until cleared or checked out.
type CartItem struct {
	BuyerID   string          `gorm:"primaryKey;size:64;not null"`
	CourseID  string          `gorm:"primaryKey;size:64;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"size:8;not null"`
	Quantity  int32           `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntitlementGrant records that a buyer has access to a course, attributed to
// the payment that bought it. The (payment_id, course_id) key makes webhook
// redelivery a conditional-insert no-op while still letting a redelivery
// complete a partially failed multi-course grant.
type EntitlementGrant struct {
	PaymentID  string `gorm:"primaryKey;size:64;not null"`
	CourseID   string `gorm:"primaryKey;size:64;not null"`
	BuyerEmail string `gorm:"size:255;index:idx_grants_buyer_course;not null"`
	GrantedAt  time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

type User struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         string `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
