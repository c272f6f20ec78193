// Package store persists the artifacts produced by the secrets package.
//
// A store is a single directory holding:
//
//	passwordFile.txt          identifier + "\n" + lowercase hex ciphertext
//	<identifier>_chaveEIV.txt raw ProtectIV output, no header
//	<identifier>.kdf.toml     derivation parameters and salt (configs.RecordMetadata)
//
// The first two formats are fixed and carry no version field. Persisted
// artifacts are never edited in place: every write goes to a temporary file
// that is synced and renamed over the destination. A Batch does the same for
// the three files of one record so they are replaced together.
package store
