package billing

import (
	"errors"

	"github.com/opdhq/opd/pkg/forms"
	"github.com/opdhq/opd/pkg/money"
)

// Input is a validated bill submission. The visit reference comes from the
// URL, never from the form.
type Input struct {
	Total  money.Amount
	Status string
	Notes  string
}

// ParseForm validates a bill submission. A blank payment status means
// pending.
func ParseForm(v forms.Values) (Input, forms.Errors) {
	errs := forms.Errors{}
	in := Input{
		Status: v.Trimmed("payment_status"),
		Notes:  v.Trimmed("notes"),
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if !ValidStatus(in.Status) {
		errs.Add("payment_status", "Payment status must be paid or pending.")
	}

	switch totalStr := v.Trimmed("total_amount"); {
	case totalStr == "":
		errs.Add("total_amount", "Total amount is required.")
	default:
		total, err := money.Parse(totalStr)
		switch {
		case errors.Is(err, money.ErrNegativeAmount):
			errs.Add("total_amount", "Total cannot be negative.")
		case err != nil:
			errs.Add("total_amount", "Enter an amount with at most 2 decimal places.")
		default:
			in.Total = total
		}
	}
	return in, errs
}
