package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
)

type billingRepository struct {
	db *sqlx.DB
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(db *sqlx.DB) *billingRepository {
	return &billingRepository{db: db}
}

func (repo *billingRepository) EnrollmentExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM enrollments WHERE id = $1)"
	if err := repo.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return exists, nil
}

func (repo *billingRepository) GetEnrollmentStudent(ctx context.Context, enrollmentID string) (author.Person, error) {
	var student author.Person
	q := `SELECT s.* FROM students s
	      JOIN enrollments e ON e.student_id = s.id
	      WHERE e.id = $1`
	if err := repo.db.GetContext(ctx, &student, q, enrollmentID); err != nil {
		if err == sql.ErrNoRows {
			return author.Person{}, author.ErrNotFound
		}
		return author.Person{}, errors.Wrap(err, "getting enrollment student")
	}
	return student, nil
}

func (repo *billingRepository) CreatePayment(ctx context.Context, pmt billing.Payment) (billing.Payment, error) {
	pmt.ID = uuid.New().String()
	q := `INSERT INTO payments (id, enrollment_id, amount, method, status, transaction_id, payment_date, created_at, updated_at)
	      VALUES (:id, :enrollment_id, :amount, :method, :status, :transaction_id, :payment_date, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, pmt); err != nil {
		return billing.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pmt, nil
}

func (repo *billingRepository) QueryPayments(ctx context.Context) ([]billing.Payment, error) {
	payments := make([]billing.Payment, 0)
	q := "SELECT * FROM payments ORDER BY payment_date DESC"
	if err := repo.db.SelectContext(ctx, &payments, q); err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	return payments, nil
}

func (repo *billingRepository) QueryPaymentsByEnrollment(ctx context.Context, enrollmentID string) ([]billing.Payment, error) {
	payments := make([]billing.Payment, 0)
	q := "SELECT * FROM payments WHERE enrollment_id = $1 ORDER BY payment_date DESC"
	if err := repo.db.SelectContext(ctx, &payments, q, enrollmentID); err != nil {
		return nil, errors.Wrap(err, "querying payments by enrollment")
	}
	return payments, nil
}

func (repo *billingRepository) GetPaymentByID(ctx context.Context, id string) (billing.Payment, error) {
	var pmt billing.Payment
	if err := repo.db.GetContext(ctx, &pmt, "SELECT * FROM payments WHERE id = $1", id); err != nil {
		return billing.Payment{}, trapNoRowsErr(err, billing.ErrPaymentNotFound, "getting payment")
	}
	return pmt, nil
}

func (repo *billingRepository) UpdatePayment(ctx context.Context, pmt billing.Payment) (billing.Payment, error) {
	// payment_date is immutable after creation and deliberately absent here
	q := `UPDATE payments
	      SET enrollment_id = :enrollment_id, amount = :amount, method = :method,
	          status = :status, transaction_id = :transaction_id, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, pmt)
	if err != nil {
		return billing.Payment{}, errors.Wrap(err, "updating payment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return billing.Payment{}, billing.ErrPaymentNotFound
	}
	return pmt, nil
}

func (repo *billingRepository) DeletePayment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return billing.ErrPaymentNotFound
	}
	return nil
}
