package patient

import (
	"strconv"

	"github.com/opdhq/opd/pkg/forms"
)

const maxNameLen = 100

// Input is a validated patient form submission. The owning doctor comes
// from the session, never from the form.
type Input struct {
	FirstName string
	LastName  string
	Gender    string
	Age       int
	Phone     string
	Address   string
}

// ParseForm validates a patient create/edit submission.
func ParseForm(v forms.Values) (Input, forms.Errors) {
	errs := forms.Errors{}
	in := Input{
		FirstName: v.Trimmed("first_name"),
		LastName:  v.Trimmed("last_name"),
		Gender:    v.Trimmed("gender"),
		Phone:     v.Trimmed("phone"),
		Address:   v.Trimmed("address"),
	}

	if in.FirstName == "" {
		errs.Add("first_name", "First name is required.")
	} else if len(in.FirstName) > maxNameLen {
		errs.Add("first_name", "First name must be at most 100 characters.")
	}
	if len(in.LastName) > maxNameLen {
		errs.Add("last_name", "Last name must be at most 100 characters.")
	}
	if !ValidGender(in.Gender) {
		errs.Add("gender", "Select a gender.")
	}

	switch ageStr := v.Trimmed("age"); {
	case ageStr == "":
		errs.Add("age", "Age is required.")
	default:
		age, err := strconv.Atoi(ageStr)
		if err != nil || age < 0 {
			errs.Add("age", "Age must be a whole number of years, 0 or more.")
		} else {
			in.Age = age
		}
	}

	if in.Phone == "" {
		errs.Add("phone", "Phone number is required.")
	}
	return in, errs
}
