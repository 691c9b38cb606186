package visit

import (
	"net/url"
	"testing"
	"time"

	"github.com/opdhq/opd/pkg/forms"
)

func visitValues(overrides map[string]string) forms.Values {
	v := url.Values{
		"visit_date":       {"2026-08-12"},
		"symptoms":         {"fever, headache"},
		"diagnosis":        {"viral fever"},
		"prescription":     {"paracetamol 500mg"},
		"consultation_fee": {"300"},
	}
	for k, val := range overrides {
		v.Set(k, val)
	}
	return forms.NewValues(v)
}

func TestParseFormValid(t *testing.T) {
	in, errs := ParseForm(visitValues(nil), time.Now())
	if errs.HasAny() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := in.VisitDate.Format("2006-01-02"); got != "2026-08-12" {
		t.Errorf("VisitDate = %s", got)
	}
	if in.Fee.String() != "300.00" {
		t.Errorf("Fee = %s, want 300.00", in.Fee)
	}
}

func TestParseFormBlankDateMeansToday(t *testing.T) {
	now := time.Date(2026, 8, 12, 15, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	in, errs := ParseForm(visitValues(map[string]string{"visit_date": ""}), now)
	if errs.HasAny() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	if !in.VisitDate.Equal(want) {
		t.Errorf("VisitDate = %v, want %v", in.VisitDate, want)
	}
}

func TestParseFormErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		field     string
	}{
		{"bad date", map[string]string{"visit_date": "12/08/2026"}, "visit_date"},
		{"missing symptoms", map[string]string{"symptoms": ""}, "symptoms"},
		{"missing diagnosis", map[string]string{"diagnosis": ""}, "diagnosis"},
		{"missing prescription", map[string]string{"prescription": ""}, "prescription"},
		{"missing fee", map[string]string{"consultation_fee": ""}, "consultation_fee"},
		{"negative fee", map[string]string{"consultation_fee": "-50"}, "consultation_fee"},
		{"fee with too many decimals", map[string]string{"consultation_fee": "300.123"}, "consultation_fee"},
		{"non-numeric fee", map[string]string{"consultation_fee": "three hundred"}, "consultation_fee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseForm(visitValues(tt.overrides), time.Now())
			if errs.First(tt.field) == "" {
				t.Errorf("expected an error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestParseFormNegativeFeeMessage(t *testing.T) {
	_, errs := ParseForm(visitValues(map[string]string{"consultation_fee": "-50"}), time.Now())
	if got := errs.First("consultation_fee"); got != "Fee cannot be negative." {
		t.Errorf("negative fee message = %q", got)
	}
}

func TestParseFormZeroFee(t *testing.T) {
	in, errs := ParseForm(visitValues(map[string]string{"consultation_fee": "0"}), time.Now())
	if errs.HasAny() {
		t.Fatalf("free consultation rejected: %v", errs)
	}
	if in.Fee != 0 {
		t.Errorf("Fee = %v, want 0", in.Fee)
	}
}
