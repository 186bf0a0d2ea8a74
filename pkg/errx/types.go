package errx

// Type categorizes an error for propagation and HTTP mapping.
type Type string

const (
	// TypeInternal represents internal faults (storage, crypto, bugs).
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents malformed or missing caller input.
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization represents authentication/authorization failures.
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound represents an absent resource.
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents a uniqueness or state conflict.
	TypeConflict Type = "CONFLICT"

	// TypeBusiness represents a violated business rule.
	TypeBusiness Type = "BUSINESS"

	// TypeExternal represents a failing external collaborator.
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}
