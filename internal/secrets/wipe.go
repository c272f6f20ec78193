package secrets

import "github.com/awnumar/memguard"

// Wipe overwrites a sensitive buffer such as a password or derived key.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
}
