package loans

import "math"

// MonthlyPayment returns the fixed monthly payment in cents for a loan with
// the given principal, annual interest rate in percent, and term in months.
// A zero rate degrades to straight division.
func MonthlyPayment(principalCents int64, annualRatePct float64, months int) int64 {
	if principalCents <= 0 || months <= 0 {
		return 0
	}
	if annualRatePct == 0 {
		return int64(math.Ceil(float64(principalCents) / float64(months)))
	}
	monthly := annualRatePct / 100 / 12
	factor := math.Pow(1+monthly, float64(months))
	payment := float64(principalCents) * monthly * factor / (factor - 1)
	return int64(math.Round(payment))
}

// PayoffMonths estimates how many monthly payments of the given size are
// needed to retire the balance. Returns -1 when the payment does not cover
// the accruing interest.
func PayoffMonths(balanceCents int64, annualRatePct float64, paymentCents int64) int {
	if balanceCents <= 0 {
		return 0
	}
	if paymentCents <= 0 {
		return -1
	}
	monthly := annualRatePct / 100 / 12
	if monthly == 0 {
		return int(math.Ceil(float64(balanceCents) / float64(paymentCents)))
	}
	interestOnly := float64(balanceCents) * monthly
	if float64(paymentCents) <= interestOnly {
		return -1
	}
	p := float64(paymentCents)
	b := float64(balanceCents)
	n := -math.Log(1-b*monthly/p) / math.Log(1+monthly)
	return int(math.Ceil(n))
}

// TotalInterest returns the interest paid over a full amortization of the
// given principal at the given payment.
func TotalInterest(principalCents int64, annualRatePct float64, months int) int64 {
	payment := MonthlyPayment(principalCents, annualRatePct, months)
	if payment == 0 {
		return 0
	}
	total := payment * int64(months)
	if total < principalCents {
		return 0
	}
	return total - principalCents
}
