package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
	logsvc "github.com/maktab-app/maktab/services/logger"
	memcache "github.com/maktab-app/maktab/storage/cache"
	dummydb "github.com/maktab-app/maktab/storage/database/dummy"
)

type (
	seedBillingRepo interface {
		billing.Repository
		AddEnrollment(enr billing.Enrollment) billing.Enrollment
		RemoveEnrollment(id string)
	}

	// mailRecorder captures outgoing messages instead of sending them.
	mailRecorder struct {
		mu       sync.Mutex
		messages []*core.EmailMessage
	}

	billingFixture struct {
		svc  *billing.Service
		repo seedBillingRepo
		mail *mailRecorder

		enrollment billing.Enrollment
		student    author.Person
	}
)

func (rec *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.messages = append(rec.messages, messages...)
}

func (rec *mailRecorder) sent() []*core.EmailMessage {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.messages
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	cache := memcache.New(time.Minute, 0)
	t.Cleanup(cache.Close)

	fix := &billingFixture{
		repo: dummydb.NewBillingRepository(db),
		mail: &mailRecorder{},
	}
	fix.student = dummydb.NewDirectory(db).AddPerson(author.RoleStudent, author.Person{
		Name:  "Daud",
		Email: "daud@test.local",
	})
	fix.enrollment = fix.repo.AddEnrollment(billing.Enrollment{StudentID: fix.student.ID})
	fix.svc = billing.NewService(fix.repo, cache, logsvc.NewNopLogger(), fix.mail, &core.Config{AppName: "Maktab"})
	return fix
}

func (fix *billingFixture) newPayment(t *testing.T, np billing.NewPayment) billing.Payment {
	t.Helper()
	if np.EnrollmentID == "" {
		np.EnrollmentID = fix.enrollment.ID
	}
	if np.Method == "" {
		np.Method = "cash"
	}
	pmt, err := fix.svc.Create(context.Background(), np)
	require.NoError(t, err)
	return pmt
}

func TestCreatePayment(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()

	t.Run("ok with defaults", func(t *testing.T) {
		pmt := fix.newPayment(t, billing.NewPayment{Amount: 5000})
		assert.NotEmpty(t, pmt.ID)
		assert.Equal(t, billing.StatusPending, pmt.Status)
		assert.False(t, pmt.PaymentDate.IsZero())
		assert.Equal(t, time.UTC, pmt.PaymentDate.Location())
		assert.False(t, pmt.TransactionID.Valid)
		assert.Empty(t, fix.mail.sent())
	})

	t.Run("zero amount allowed", func(t *testing.T) {
		pmt := fix.newPayment(t, billing.NewPayment{Amount: 0})
		assert.Equal(t, int64(0), pmt.Amount)
	})

	t.Run("missing enrollment", func(t *testing.T) {
		_, err := fix.svc.Create(ctx, billing.NewPayment{
			EnrollmentID: "0e1de9a9-31fd-4b9a-8a44-c52742e1ee7f",
			Amount:       100,
			Method:       "cash",
		})
		require.Error(t, err)
		assert.Equal(t, billing.ErrEnrollmentNotFound, err)

		// nothing was written
		payments, err := fix.svc.Query(ctx, "0e1de9a9-31fd-4b9a-8a44-c52742e1ee7f")
		require.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("completed at creation sends receipt", func(t *testing.T) {
		before := len(fix.mail.sent())
		fix.newPayment(t, billing.NewPayment{Amount: 7500, Status: billing.StatusCompleted})
		sent := fix.mail.sent()
		require.Len(t, sent, before+1)
		assert.Equal(t, fix.student.Email, sent[len(sent)-1].To[0].Address)
	})
}

func TestUpdatePayment(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()

	t.Run("status-only update skips enrollment check", func(t *testing.T) {
		pmt := fix.newPayment(t, billing.NewPayment{Amount: 5000})

		// enrollment vanishes after the payment was recorded
		fix.repo.RemoveEnrollment(fix.enrollment.ID)
		defer func() { fix.enrollment = fix.repo.AddEnrollment(fix.enrollment) }()

		status := billing.StatusFailed
		updated, err := fix.svc.Update(ctx, pmt.ID, billing.UpdatePayment{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, billing.StatusFailed, updated.Status)
	})

	t.Run("enrollment in payload is validated", func(t *testing.T) {
		pmt := fix.newPayment(t, billing.NewPayment{Amount: 5000})
		bad := "0e1de9a9-31fd-4b9a-8a44-c52742e1ee7f"
		_, err := fix.svc.Update(ctx, pmt.ID, billing.UpdatePayment{EnrollmentID: &bad})
		assert.Equal(t, billing.ErrEnrollmentNotFound, err)
	})

	t.Run("payment date is immutable", func(t *testing.T) {
		pmt := fix.newPayment(t, billing.NewPayment{Amount: 5000})
		amount := int64(6000)
		updated, err := fix.svc.Update(ctx, pmt.ID, billing.UpdatePayment{Amount: &amount})
		require.NoError(t, err)
		assert.Equal(t, pmt.PaymentDate, updated.PaymentDate)
		assert.Equal(t, int64(6000), updated.Amount)
	})

	t.Run("receipt sent on completion only", func(t *testing.T) {
		pmt := fix.newPayment(t, billing.NewPayment{Amount: 5000})
		before := len(fix.mail.sent())

		status := billing.StatusCompleted
		_, err := fix.svc.Update(ctx, pmt.ID, billing.UpdatePayment{Status: &status})
		require.NoError(t, err)
		require.Len(t, fix.mail.sent(), before+1)

		// already completed; no duplicate receipt
		amount := int64(5500)
		_, err = fix.svc.Update(ctx, pmt.ID, billing.UpdatePayment{Amount: &amount})
		require.NoError(t, err)
		assert.Len(t, fix.mail.sent(), before+1)
	})

	t.Run("missing target", func(t *testing.T) {
		status := billing.StatusCompleted
		_, err := fix.svc.Update(ctx, "ec0ada35-7a26-4ec6-8f62-f5b33fcc8e6d", billing.UpdatePayment{Status: &status})
		assert.Equal(t, billing.ErrPaymentNotFound, err)
	})
}

func TestQueryPaymentsOrdering(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()

	// seed out of order, straight into the store
	base := time.Now().UTC()
	for _, offset := range []time.Duration{time.Hour, 3 * time.Hour, 2 * time.Hour} {
		_, err := fix.repo.CreatePayment(ctx, billing.Payment{
			EnrollmentID: fix.enrollment.ID,
			PaymentDate:  base.Add(offset),
		})
		require.NoError(t, err)
	}

	payments, err := fix.svc.Query(ctx, fix.enrollment.ID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	for i := 1; i < len(payments); i++ {
		assert.False(t, payments[i].PaymentDate.After(payments[i-1].PaymentDate))
	}
}

func TestQueryPaymentsCaching(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()
	fix.newPayment(t, billing.NewPayment{Amount: 1000})

	payments, err := fix.svc.Query(ctx, "")
	require.NoError(t, err)
	require.Len(t, payments, 1)

	// a write that bypasses the service is invisible while the cache holds
	_, err = fix.repo.CreatePayment(ctx, billing.Payment{EnrollmentID: fix.enrollment.ID})
	require.NoError(t, err)
	payments, err = fix.svc.Query(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	// a service write invalidates the payments namespace
	fix.newPayment(t, billing.NewPayment{Amount: 2000})
	payments, err = fix.svc.Query(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 3)
}

func TestDeletePayment(t *testing.T) {
	fix := newBillingFixture(t)
	ctx := context.Background()
	pmt := fix.newPayment(t, billing.NewPayment{Amount: 5000})

	require.NoError(t, fix.svc.Delete(ctx, pmt.ID))
	assert.Equal(t, billing.ErrPaymentNotFound, fix.svc.Delete(ctx, pmt.ID))

	_, err := fix.svc.GetByID(ctx, pmt.ID)
	assert.True(t, core.IsNotFound(err))
}
