package account

import "github.com/opdhq/opd/pkg/forms"

const maxUsernameLen = 150

// SignupInput is a validated signup submission.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// ParseSignupForm validates a signup submission. On failure the returned
// error map is non-empty and the input must not be used.
func ParseSignupForm(v forms.Values) (SignupInput, forms.Errors) {
	errs := forms.Errors{}
	in := SignupInput{
		Username: v.Trimmed("username"),
		Email:    v.Trimmed("email"),
		Password: v.Get("password1"),
	}

	if in.Username == "" {
		errs.Add("username", "Username is required.")
	} else if len(in.Username) > maxUsernameLen {
		errs.Add("username", "Username must be at most 150 characters.")
	}
	if in.Email == "" {
		errs.Add("email", "Email is required.")
	} else if !forms.LooksLikeEmail(in.Email) {
		errs.Add("email", "Enter a valid email address.")
	}
	if len(in.Password) < 8 {
		errs.Add("password1", "Password must be at least 8 characters.")
	}
	if v.Get("password2") != in.Password {
		errs.Add("password2", "Passwords do not match.")
	}
	return in, errs
}

// LoginInput is a login submission. Validation beyond presence happens
// against the stored credentials.
type LoginInput struct {
	Username string
	Password string
}

func ParseLoginForm(v forms.Values) (LoginInput, forms.Errors) {
	errs := forms.Errors{}
	in := LoginInput{
		Username: v.Trimmed("username"),
		Password: v.Get("password"),
	}
	if in.Username == "" || in.Password == "" {
		errs.Add("", "Enter both username and password.")
	}
	return in, errs
}
