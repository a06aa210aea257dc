// Package repository contains the data access layer. Sentinel errors defined
// here are shared across repositories so handlers can translate failure
// scenarios into HTTP statuses without string matching: the *Exists
// sentinels map to 409, the *NotFound sentinels to 404.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides on username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when registration collides on email.
var ErrEmailExists = errors.New("email already exists")

// ErrMedicationNotFound is returned when a medication lookup yields no rows.
var ErrMedicationNotFound = errors.New("medication not found")

// ErrDoseEventNotFound is returned when a history lookup yields no rows.
var ErrDoseEventNotFound = errors.New("dose event not found")
