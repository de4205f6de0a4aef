package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
)

var (
	errPaymentsRequired = errors.New("loans: payment repository is required")

	ErrMissingLoanName = errors.New("loans: loan name is required")
	ErrInvalidAmount   = errors.New("loans: payment amounts must not be negative")
	ErrEmptyPayment    = errors.New("loans: payment must carry principal or interest")
)

// Dependencies wires the payment repository and logging into the service.
type Dependencies struct {
	Payments store.LoanPaymentRepository
	Logger   logger.Logger
	Clock    func() time.Time
}

// Service records loan payments and answers amortization questions.
type Service struct {
	payments store.LoanPaymentRepository
	log      logger.Logger
	clock    func() time.Time
}

// New constructs the loan service.
func New(deps Dependencies) (*Service, error) {
	if deps.Payments == nil {
		return nil, errPaymentsRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		payments: deps.Payments,
		log:      deps.Logger,
		clock:    deps.Clock,
	}, nil
}

// PaymentInput captures persistence fields for a single loan payment.
type PaymentInput struct {
	LoanName       string         `json:"loan_name"`
	PrincipalCents int64          `json:"principal_cents"`
	InterestCents  int64          `json:"interest_cents"`
	Currency       string         `json:"currency"`
	PaidOn         time.Time      `json:"paid_on"`
	Metadata       domain.JSONMap `json:"metadata,omitempty"`
}

// RecordPayment validates and persists a loan payment.
func (s *Service) RecordPayment(ctx context.Context, input PaymentInput) (*domain.LoanPayment, error) {
	if input.LoanName == "" {
		return nil, ErrMissingLoanName
	}
	if input.PrincipalCents < 0 || input.InterestCents < 0 {
		return nil, ErrInvalidAmount
	}
	if input.PrincipalCents == 0 && input.InterestCents == 0 {
		return nil, ErrEmptyPayment
	}
	if input.PaidOn.IsZero() {
		input.PaidOn = s.clock().UTC()
	}
	payment := &domain.LoanPayment{
		LoanName:       input.LoanName,
		PrincipalCents: input.PrincipalCents,
		InterestCents:  input.InterestCents,
		Currency:       input.Currency,
		PaidOn:         input.PaidOn,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	s.log.Debug("loan payment recorded", "loan", payment.LoanName, "total_cents", payment.TotalCents())
	return payment, nil
}

// History returns the payments for one loan ordered by payment date.
func (s *Service) History(ctx context.Context, loanName string) ([]domain.LoanPayment, error) {
	if loanName == "" {
		return nil, ErrMissingLoanName
	}
	return s.payments.ListByLoan(ctx, loanName)
}

// Summary aggregates the recorded payments of one loan.
type Summary struct {
	LoanName            string    `json:"loan_name"`
	Payments            int       `json:"payments"`
	PaidPrincipalCents  int64     `json:"paid_principal_cents"`
	PaidInterestCents   int64     `json:"paid_interest_cents"`
	TotalPaidCents      int64     `json:"total_paid_cents"`
	LastPaymentOn       time.Time `json:"last_payment_on"`
	AvgMonthlyPaidCents int64     `json:"avg_monthly_paid_cents"`
}

// Summarize computes totals across a loan's payment history.
func (s *Service) Summarize(ctx context.Context, loanName string) (Summary, error) {
	payments, err := s.History(ctx, loanName)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{LoanName: loanName, Payments: len(payments)}
	for _, p := range payments {
		out.PaidPrincipalCents += p.PrincipalCents
		out.PaidInterestCents += p.InterestCents
		if p.PaidOn.After(out.LastPaymentOn) {
			out.LastPaymentOn = p.PaidOn
		}
	}
	out.TotalPaidCents = out.PaidPrincipalCents + out.PaidInterestCents
	if len(payments) > 0 {
		out.AvgMonthlyPaidCents = out.TotalPaidCents / int64(len(payments))
	}
	return out, nil
}

// RemainingBalance projects the outstanding principal after the recorded
// payments, given the original loan amount.
func (s *Service) RemainingBalance(ctx context.Context, loanName string, originalCents int64) (int64, error) {
	summary, err := s.Summarize(ctx, loanName)
	if err != nil {
		return 0, err
	}
	remaining := originalCents - summary.PaidPrincipalCents
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
