// Package secrets provides the cryptographic core of cofre.
//
// It turns a password into a symmetric key and uses that key to encrypt a
// single secret value. Every function is a stateless transform over its
// arguments: nothing here touches the file system, and all functions are
// safe for concurrent use.
//
// # Key Derivation
//
// DeriveKey runs PBKDF2 over an HMAC of the configured hash:
//
//	params := secrets.DefaultParams() // 10000 iterations, 32 bytes, sha256, 16-byte salt
//	salt, _ := secrets.GenerateSalt(params.SaltLength)
//	key, err := secrets.DeriveKey(password, salt, params)
//	defer secrets.Wipe(key)
//
// Params is an explicit value rather than hidden defaults so it can be
// recorded next to the ciphertext and replayed at decryption time.
//
// # Secret Encryption
//
// Encrypt uses AES-256-CBC with PKCS#7 padding and a fresh random 16-byte IV
// on every call. Decrypt needs the exact IV produced by that call.
//
// # IV Protection
//
// The IV is stored encrypted. ProtectIV encrypts it under the same key with
// AES-256 in ECB mode (one IV block plus one padding block); RecoverIV
// reverses it. ECB is acceptable only because the protected value is a single
// block.
//
// # Limitations
//
// There is no authentication tag. A wrong password and a corrupted file are
// reported the same way (ErrDecryption or ErrCorruptData), and a wrong key
// can occasionally produce valid padding over garbage plaintext.
//
// All text is handled as UTF-8 bytes; passwords and secrets that are not
// valid UTF-8 are rejected with ErrInvalidInput.
package secrets
