package billing

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
)

var (
	// errors
	ErrEnrollmentNotFound = core.NotFoundf("enrollment not found")
	ErrPaymentNotFound    = core.NotFoundf("payment not found")
)

const paymentCachePrefix = "payments"

func paymentListKey(enrollmentID string) string {
	if enrollmentID == "" {
		return paymentCachePrefix + ":all"
	}
	return paymentCachePrefix + ":enrollment:" + enrollmentID
}

type (
	Repository interface {
		EnrollmentExists(ctx context.Context, id string) (bool, error)
		// GetEnrollmentStudent returns the student the enrollment belongs to;
		// author.ErrNotFound when either side of the link is gone.
		GetEnrollmentStudent(ctx context.Context, enrollmentID string) (author.Person, error)

		CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
		// QueryPayments and QueryPaymentsByEnrollment return payments
		// descending by payment date.
		QueryPayments(ctx context.Context) ([]Payment, error)
		QueryPaymentsByEnrollment(ctx context.Context, enrollmentID string) ([]Payment, error)
		GetPaymentByID(ctx context.Context, id string) (Payment, error)
		UpdatePayment(ctx context.Context, pmt Payment) (Payment, error)
		DeletePayment(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		cache   core.Cache // nil-able; absence degrades to store reads
		logger  core.Logger
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, cache core.Cache, logger core.Logger, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		logger:  logger,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) validateEnrollment(ctx context.Context, id string) error {
	ok, err := svc.repo.EnrollmentExists(ctx, id)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	if !ok {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (svc *Service) invalidatePayments() {
	if svc.cache != nil {
		svc.cache.DeleteByPrefix(paymentCachePrefix)
	}
}

func (svc *Service) Create(ctx context.Context, np NewPayment) (Payment, error) {
	if err := svc.validateEnrollment(ctx, np.EnrollmentID); err != nil {
		return Payment{}, err
	}

	status := np.Status
	if status == "" {
		status = StatusPending
	}
	now := time.Now().UTC()
	pmt := Payment{
		EnrollmentID:  np.EnrollmentID,
		Amount:        np.Amount,
		Method:        np.Method,
		Status:        status,
		TransactionID: null.NewString(np.TransactionID, np.TransactionID != ""),
		PaymentDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	pmt, err := svc.repo.CreatePayment(ctx, pmt)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("creating payment: %v", err), err)
		return Payment{}, err
	}

	svc.invalidatePayments()
	svc.logger.Info(fmt.Sprintf("payment %s created", pmt.ID))
	if pmt.Status == StatusCompleted {
		svc.sendReceipt(ctx, pmt)
	}
	return pmt, nil
}

// Query lists payments descending by payment date, optionally restricted to
// one enrollment. Reads may be served from cache.
func (svc *Service) Query(ctx context.Context, enrollmentID string) ([]Payment, error) {
	val, err := core.CachedQuery(svc.cache, paymentListKey(enrollmentID), func() (interface{}, error) {
		if enrollmentID != "" {
			return svc.repo.QueryPaymentsByEnrollment(ctx, enrollmentID)
		}
		return svc.repo.QueryPayments(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.([]Payment), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

// Update merges the non-nil fields of up into the stored payment. The target
// must exist before any foreign key in the payload is checked; the enrollment
// reference is only re-validated when the payload actually carries one.
func (svc *Service) Update(ctx context.Context, id string, up UpdatePayment) (Payment, error) {
	pmt, err := svc.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}

	if up.EnrollmentID != nil {
		if err = svc.validateEnrollment(ctx, *up.EnrollmentID); err != nil {
			return Payment{}, err
		}
		pmt.EnrollmentID = *up.EnrollmentID
	}
	if up.Amount != nil {
		pmt.Amount = *up.Amount
	}
	if up.Method != nil {
		pmt.Method = *up.Method
	}
	wasCompleted := pmt.Status == StatusCompleted
	if up.Status != nil {
		pmt.Status = *up.Status
	}
	if up.TransactionID != nil {
		pmt.TransactionID = null.NewString(*up.TransactionID, *up.TransactionID != "")
	}
	pmt.UpdatedAt = time.Now().UTC()

	pmt, err = svc.repo.UpdatePayment(ctx, pmt)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("updating payment %s: %v", id, err), err)
		return Payment{}, err
	}

	svc.invalidatePayments()
	svc.logger.Info(fmt.Sprintf("payment %s updated", pmt.ID))
	if !wasCompleted && pmt.Status == StatusCompleted {
		svc.sendReceipt(ctx, pmt)
	}
	return pmt, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetPaymentByID(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.DeletePayment(ctx, id); err != nil {
		svc.logger.Error(fmt.Sprintf("deleting payment %s: %v", id, err), err)
		return err
	}
	svc.invalidatePayments()
	svc.logger.Info(fmt.Sprintf("payment %s deleted", id))
	return nil
}

// sendReceipt emails the enrolled student a receipt for a completed payment.
// Failures are logged only; receipts never fail the payment.
func (svc *Service) sendReceipt(ctx context.Context, pmt Payment) {
	if svc.mailSvc == nil {
		return
	}
	student, err := svc.repo.GetEnrollmentStudent(ctx, pmt.EnrollmentID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("finding student for receipt on payment %s: %v", pmt.ID, err), err)
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %d (ref %s) on %s.\n\nThank you!",
		student.Name, pmt.Amount, pmt.ID, pmt.PaymentDate.Format("02 Jan 2006"),
	)
	if svc.conf.FrontendBaseURL != "" {
		body += fmt.Sprintf("\n\nView your payments: %s/payments", svc.conf.FrontendBaseURL)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:     "Payment received",
		TextContent: body,
	})
}
