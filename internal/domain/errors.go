package domain

import "errors"

// Domain errors. All are terminal outcomes returned to the caller; the
// engine never retries them. Anything not listed here is treated as an
// infrastructure failure and passed through wrapped.
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrRoleNotFound          = errors.New("role not found")
	ErrCapacityExceeded      = errors.New("role has no remaining capacity")
	ErrDuplicateRegistration = errors.New("user already registered for this role")
	ErrRoleBecameFull        = errors.New("role filled up during registration")
	ErrTargetRoleFull        = errors.New("target role has no remaining capacity")
	ErrTargetRoleBecameFull  = errors.New("target role filled up during move")
	ErrNotRegistered         = errors.New("no active registration for this user and role")
	ErrLockTimeout           = errors.New("timed out waiting for lock")
	ErrCapacityBelowCount    = errors.New("cannot reduce capacity below active registrations")
)

// codes maps each domain error to a stable identifier usable as an i18n
// message key and API error code.
var codes = map[error]string{
	ErrEventNotFound:         "event_not_found",
	ErrRoleNotFound:          "role_not_found",
	ErrCapacityExceeded:      "capacity_exceeded",
	ErrDuplicateRegistration: "duplicate_registration",
	ErrRoleBecameFull:        "role_became_full",
	ErrTargetRoleFull:        "target_role_full",
	ErrTargetRoleBecameFull:  "target_role_became_full",
	ErrNotRegistered:         "not_registered",
	ErrLockTimeout:           "lock_timeout",
	ErrCapacityBelowCount:    "capacity_below_count",
}

// Code returns the stable code for a domain error, or "" when err is not a
// domain error (infrastructure failures carry no code).
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
