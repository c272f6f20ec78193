package errors

import "errors"

// Input errors indicate the caller supplied a malformed parameter.
var (
	// ErrInvalidInput indicates an empty password, a wrong-length key or IV,
	// a missing salt, or any other malformed argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidIdentifier indicates the record identifier cannot be used as
	// a file name component.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Cryptographic errors indicate failures inside or around the primitives.
var (
	// ErrAlgorithm indicates the underlying primitive rejected its parameters,
	// such as an unsupported hash name.
	ErrAlgorithm = errors.New("unsupported algorithm")

	// ErrDecryption indicates a ciphertext could not be decrypted into a
	// well-formed plaintext (bad length or bad padding).
	ErrDecryption = errors.New("decryption failed")

	// ErrCorruptData indicates persisted bytes do not have the expected shape.
	ErrCorruptData = errors.New("corrupt data")
)

// Storage errors indicate issues with the persisted artifacts.
var (
	// ErrStorage indicates a file could not be read or written.
	ErrStorage = errors.New("storage error")

	// ErrRecordNotFound indicates no secret record exists in the store.
	ErrRecordNotFound = errors.New("secret record not found")

	// ErrRecordExists indicates a secret record already exists and would be replaced.
	ErrRecordExists = errors.New("secret record already exists")

	// ErrIVFileNotFound indicates the protected IV file for a record is missing.
	ErrIVFileNotFound = errors.New("protected IV file not found")

	// ErrAuditLogNotFound indicates the store has no audit log yet.
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// Prompt errors indicate interactive input was rejected.
var (
	// ErrWeakPassword indicates the password does not meet the minimum policy.
	ErrWeakPassword = errors.New("password does not meet the minimum requirements")

	// ErrPasswordMismatch indicates the confirmation did not match the password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
