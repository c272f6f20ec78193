// Package errors provides typed error values for the cofre application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Input errors: a caller supplied a malformed argument (ErrInvalidInput)
//   - Crypto errors: a primitive rejected its parameters (ErrAlgorithm) or a
//     ciphertext did not decode (ErrDecryption, ErrCorruptData)
//   - Storage errors: persisted artifacts are missing or unreadable
//     (ErrStorage, ErrRecordNotFound, ErrIVFileNotFound)
//   - Prompt errors: interactive input was rejected (ErrWeakPassword)
//
// Input errors are always detected before any cryptographic operation runs,
// so a caller can tell "malformed arguments" apart from "this ciphertext does
// not decrypt with this key".
//
// There is no authentication tag on stored ciphertexts. A wrong password and a
// corrupted file both surface as ErrDecryption or ErrCorruptData.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: key must be %d bytes, got %d", errors.ErrInvalidInput, KeySize, len(key))
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrDecryption) {
//	    // Show "wrong password or corrupted data"
//	}
package errors
