// Package patient manages a doctor's patient records.
package patient

import (
	"strings"
	"time"
)

// Gender codes accepted on the patient form.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

var genderLabels = map[string]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

// ValidGender reports whether g is one of the accepted codes.
func ValidGender(g string) bool {
	_, ok := genderLabels[g]
	return ok
}

// Patient is a clinic patient. CreatedBy scopes every read and write: a
// doctor only ever sees their own patients.
type Patient struct {
	ID        int64
	FirstName string
	LastName  string
	Gender    string
	Age       int
	Phone     string
	Address   string
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name, tolerating an empty last name.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// GenderLabel returns the display form of the gender code.
func (p *Patient) GenderLabel() string {
	if l, ok := genderLabels[p.Gender]; ok {
		return l
	}
	return p.Gender
}
