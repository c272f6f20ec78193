package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/cofre/internal/audit"
	"github.com/PolarWolf314/cofre/internal/configs"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/store"
)

// LegacySalt is the salt used for records written without a parameter
// sidecar.
const LegacySalt = "salt"

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Password is the password the key is re-derived from. Not modified.
	Password []byte

	// FallbackParams supplies the parameters for records without a sidecar
	// and is only called for those. Nil means secrets.DefaultParams().
	FallbackParams func() (secrets.Params, error)

	StoreDir   string
	RecordFile string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Identifier string
	RecordUUID string

	// Plaintext is the recovered secret. The caller should wipe it with
	// secrets.Wipe once it has been displayed or copied.
	Plaintext []byte

	Params secrets.Params

	// Legacy is true when no sidecar was found and the legacy salt was used.
	Legacy bool
}

// Decrypt reads the record, re-derives the key from the password, recovers
// the IV and decrypts the secret.
//
// A wrong password usually surfaces as ErrDecryption (bad padding) or
// ErrCorruptData (IV blob does not unpad), but may also yield garbage
// plaintext since the cipher is unauthenticated.
//
// Returns ErrRecordNotFound if no record exists.
// Returns ErrIVFileNotFound if the record's IV file is missing.
// Returns ErrCorruptData if the record or sidecar are malformed.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	layout, err := resolveLayout(opts.StoreDir, opts.RecordFile)
	if err != nil {
		return nil, err
	}

	record, err := store.ReadRecord(layout.RecordPath())
	if err != nil {
		return nil, err
	}

	ciphertext, err := record.Ciphertext()
	if err != nil {
		return nil, err
	}

	blob, err := store.ReadIVBlob(layout.IVPath(record.Identifier))
	if err != nil {
		return nil, err
	}

	result := &DecryptResult{Identifier: record.Identifier}

	params, salt, err := derivationInputs(layout, record.Identifier, opts.FallbackParams, result)
	if err != nil {
		return nil, err
	}
	result.Params = params

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := secrets.DeriveKey(opts.Password, salt, params)
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(key)

	iv, err := secrets.RecoverIV(key, blob)
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(iv)

	plaintext, err := secrets.Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, err
	}
	result.Plaintext = plaintext

	auditEntry := audit.NewEntry("decrypt")
	auditEntry.Identifier = record.Identifier
	auditEntry.RecordUUID = result.RecordUUID
	audit.Log(layout.AuditLogPath(), auditEntry)

	return result, nil
}

// derivationInputs loads params and salt from the record's sidecar, or falls
// back to the legacy salt when there is none.
func derivationInputs(layout store.Layout, identifier string, fallback func() (secrets.Params, error), result *DecryptResult) (secrets.Params, []byte, error) {
	metadataPath := layout.MetadataPath(identifier)

	exists, err := store.Exists(metadataPath)
	if err != nil {
		return secrets.Params{}, nil, err
	}

	if !exists {
		result.Legacy = true
		params := secrets.DefaultParams()
		if fallback != nil {
			if params, err = fallback(); err != nil {
				return secrets.Params{}, nil, err
			}
		}
		return params, secrets.SaltFromString(LegacySalt), nil
	}

	metadata, err := configs.LoadRecordMetadata(metadataPath)
	if err != nil {
		return secrets.Params{}, nil, err
	}
	if metadata.Record.Identifier != "" && metadata.Record.Identifier != identifier {
		return secrets.Params{}, nil, fmt.Errorf("%w: sidecar belongs to %q, record is %q", kerrors.ErrCorruptData, metadata.Record.Identifier, identifier)
	}
	result.RecordUUID = metadata.Record.UUID

	return metadata.DerivationInputs()
}
