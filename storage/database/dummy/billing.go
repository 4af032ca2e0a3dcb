package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
)

type billingRepository struct {
	enrollments *enrollmentTable
	payments    *paymentTable
	persons     *personTables
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(db *DB) *billingRepository {
	return &billingRepository{
		enrollments: db.enrollments,
		payments:    db.payments,
		persons:     db.persons,
	}
}

func (repo *billingRepository) EnrollmentExists(_ context.Context, id string) (bool, error) {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()
	_, ok := repo.enrollments.table[id]
	return ok, nil
}

func (repo *billingRepository) GetEnrollmentStudent(_ context.Context, enrollmentID string) (author.Person, error) {
	repo.enrollments.RLock()
	enr, ok := repo.enrollments.table[enrollmentID]
	repo.enrollments.RUnlock()
	if !ok {
		return author.Person{}, author.ErrNotFound
	}

	repo.persons.RLock()
	defer repo.persons.RUnlock()
	if student, ok := repo.persons.students[enr.StudentID]; ok {
		return *student, nil
	}
	return author.Person{}, author.ErrNotFound
}

// AddEnrollment inserts an enrollment; test seeding helper (enrollments are
// managed by the class-administration layer in production).
func (repo *billingRepository) AddEnrollment(enr billing.Enrollment) billing.Enrollment {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()

	if enr.ID == "" {
		enr.ID = uuid.New().String()
	}
	repo.enrollments.table[enr.ID] = &enr
	return enr
}

// RemoveEnrollment deletes an enrollment; test helper for dangling-reference
// scenarios.
func (repo *billingRepository) RemoveEnrollment(id string) {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()
	delete(repo.enrollments.table, id)
}

func (repo *billingRepository) CreatePayment(_ context.Context, pmt billing.Payment) (billing.Payment, error) {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	pmt.ID = uuid.New().String()
	repo.payments.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *billingRepository) QueryPayments(_ context.Context) ([]billing.Payment, error) {
	return repo.QueryPaymentsByEnrollment(nil, "")
}

func (repo *billingRepository) QueryPaymentsByEnrollment(_ context.Context, enrollmentID string) ([]billing.Payment, error) {
	repo.payments.RLock()
	defer repo.payments.RUnlock()

	payments := make([]billing.Payment, 0, len(repo.payments.table))
	for _, p := range repo.payments.table {
		if enrollmentID == "" || p.EnrollmentID == enrollmentID {
			payments = append(payments, *p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaymentDate.After(payments[j].PaymentDate) })
	return payments, nil
}

func (repo *billingRepository) GetPaymentByID(_ context.Context, id string) (billing.Payment, error) {
	repo.payments.RLock()
	defer repo.payments.RUnlock()

	if p, ok := repo.payments.table[id]; ok {
		return *p, nil
	}
	return billing.Payment{}, billing.ErrPaymentNotFound
}

func (repo *billingRepository) UpdatePayment(_ context.Context, pmt billing.Payment) (billing.Payment, error) {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	if _, ok := repo.payments.table[pmt.ID]; !ok {
		return billing.Payment{}, billing.ErrPaymentNotFound
	}
	repo.payments.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *billingRepository) DeletePayment(_ context.Context, id string) error {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	if _, ok := repo.payments.table[id]; !ok {
		return billing.ErrPaymentNotFound
	}
	delete(repo.payments.table, id)
	return nil
}
