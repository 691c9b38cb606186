package visit

import (
	"errors"
	"time"

	"github.com/opdhq/opd/pkg/forms"
	"github.com/opdhq/opd/pkg/money"
)

// Input is a validated visit submission. Patient and doctor are supplied
// by the caller, never by the form.
type Input struct {
	VisitDate    time.Time
	Symptoms     string
	Diagnosis    string
	Prescription string
	Fee          money.Amount
}

// ParseForm validates a visit submission. A blank visit date means today.
func ParseForm(v forms.Values, now time.Time) (Input, forms.Errors) {
	errs := forms.Errors{}
	in := Input{
		Symptoms:     v.Trimmed("symptoms"),
		Diagnosis:    v.Trimmed("diagnosis"),
		Prescription: v.Trimmed("prescription"),
	}

	switch dateStr := v.Trimmed("visit_date"); dateStr {
	case "":
		y, m, d := now.Date()
		in.VisitDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	default:
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			errs.Add("visit_date", "Enter a date as YYYY-MM-DD.")
		} else {
			in.VisitDate = d
		}
	}

	if in.Symptoms == "" {
		errs.Add("symptoms", "Symptoms are required.")
	}
	if in.Diagnosis == "" {
		errs.Add("diagnosis", "Diagnosis is required.")
	}
	if in.Prescription == "" {
		errs.Add("prescription", "Prescription is required.")
	}

	switch feeStr := v.Trimmed("consultation_fee"); {
	case feeStr == "":
		errs.Add("consultation_fee", "Consultation fee is required.")
	default:
		fee, err := money.Parse(feeStr)
		switch {
		case errors.Is(err, money.ErrNegativeAmount):
			errs.Add("consultation_fee", "Fee cannot be negative.")
		case err != nil:
			errs.Add("consultation_fee", "Enter an amount with at most 2 decimal places.")
		default:
			in.Fee = fee
		}
	}
	return in, errs
}
