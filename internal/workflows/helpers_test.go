package workflows

import (
	"context"
	"testing"

	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/store"
	"github.com/PolarWolf314/cofre/internal/utils"
)

const testPassword = "MinhaSenhaSuperSegura123!"

var testPolicy = utils.PasswordPolicy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true}

// testParams keeps derivation fast while still exercising a non-default hash.
func testParams() secrets.Params {
	return secrets.Params{Iterations: 1000, KeyLength: 32, Hash: secrets.SHA256, SaltLength: 16}
}

// encryptForTest writes a record for identifier into dir and fails the test
// on error.
func encryptForTest(t *testing.T, dir, identifier, password string) *EncryptResult {
	t.Helper()

	result, err := Encrypt(context.Background(), EncryptOptions{
		Identifier: identifier,
		Password:   []byte(password),
		Params:     testParams(),
		Policy:     testPolicy,
		StoreDir:   dir,
		Force:      true,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	return result
}

func layoutForTest(dir string) store.Layout {
	return store.Layout{Dir: dir, RecordFile: "passwordFile.txt"}
}
