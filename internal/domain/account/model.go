// Package account manages doctor registration and sign-in.
package account

import "time"

// Doctor is a clinic user. Every patient, visit and bill in the system is
// owned by exactly one doctor.
type Doctor struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
