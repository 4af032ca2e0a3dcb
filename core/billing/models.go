package billing

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
)

// Enrollment links a student to a class. Enrollments are managed by the
// class-administration layer; this package only reads them.
type Enrollment struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	ClassID   string    `json:"class_id" db:"class_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type Payment struct {
	ID            string        `json:"id" db:"id"`
	EnrollmentID  string        `json:"enrollment_id" db:"enrollment_id"`
	Amount        int64         `json:"amount" db:"amount"` // smallest currency unit
	Method        string        `json:"method" db:"method"`
	Status        PaymentStatus `json:"status" db:"status"`
	TransactionID null.String   `json:"transaction_id" db:"transaction_id"`
	PaymentDate   time.Time     `json:"payment_date" db:"payment_date"` // UTC; assigned at creation, immutable
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`     // UTC
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`     // UTC
}

// NewPayment contains information needed to record a new Payment.
type NewPayment struct {
	EnrollmentID  string        `json:"enrollment_id" validate:"required,uuid4"`
	Amount        int64         `json:"amount" validate:"gte=0"`
	Method        string        `json:"method" validate:"required,oneof=cash card mobile_money bank_transfer"`
	Status        PaymentStatus `json:"status" validate:"omitempty,oneof=pending completed failed"`
	TransactionID string        `json:"transaction_id" validate:"omitempty,max=255"`
}

// UpdatePayment carries a partial update; nil fields are left untouched.
// PaymentDate is deliberately absent: it is immutable after creation.
type UpdatePayment struct {
	EnrollmentID  *string        `json:"enrollment_id" validate:"omitempty,uuid4"`
	Amount        *int64         `json:"amount" validate:"omitempty,gte=0"`
	Method        *string        `json:"method" validate:"omitempty,oneof=cash card mobile_money bank_transfer"`
	Status        *PaymentStatus `json:"status" validate:"omitempty,oneof=pending completed failed"`
	TransactionID *string        `json:"transaction_id" validate:"omitempty,max=255"`
}
