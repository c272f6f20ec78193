package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/cofre/internal/audit"
	"github.com/PolarWolf314/cofre/internal/configs"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/store"
	"github.com/PolarWolf314/cofre/internal/utils"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Identifier names the record. It becomes the first line of the record
	// file and the prefix of the IV file.
	Identifier string

	// Password is the password the key is derived from. Not modified.
	Password []byte

	// Secret is the plaintext to encrypt. If nil, the password itself is
	// encrypted.
	Secret []byte

	// Params are the derivation parameters. The zero value means
	// secrets.DefaultParams().
	Params secrets.Params

	// Policy is enforced on Password before anything is derived.
	Policy utils.PasswordPolicy

	// StoreDir is the directory holding the record. Empty means the working
	// directory.
	StoreDir string

	// RecordFile is the record file name. Empty means passwordFile.txt.
	RecordFile string

	// Force replaces an existing record.
	Force bool
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	Identifier string
	RecordUUID string

	RecordPath   string
	IVPath       string
	MetadataPath string

	// CiphertextHex is the second line of the record.
	CiphertextHex string

	Params secrets.Params

	// Replaced is true when an existing record was overwritten.
	Replaced bool
}

// commitBatch moves the staged files into place. Tests replace it to stop a
// run between staging and commit.
var commitBatch = (*store.Batch).Commit

// Encrypt derives a key from the password, encrypts the secret and writes
// the record, the protected IV file and the parameter sidecar.
//
// All three files are staged under temporary names before any of them is
// replaced, and the record is renamed into place last. A run that fails or
// is stopped before the renames leaves the previous record, IV file and
// sidecar as they were, and a failed rename restores them.
// IV files and sidecars of other identifiers are removed by Clean.
//
// Returns ErrInvalidIdentifier if the identifier cannot be stored.
// Returns ErrWeakPassword if the password fails the policy.
// Returns ErrRecordExists if a record exists and Force is not set.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	if err := store.ValidateIdentifier(opts.Identifier); err != nil {
		return nil, err
	}
	if len(opts.Password) == 0 {
		return nil, fmt.Errorf("%w: password cannot be empty", kerrors.ErrInvalidInput)
	}
	if err := opts.Policy.Check(opts.Password); err != nil {
		return nil, err
	}

	params := opts.Params
	if params == (secrets.Params{}) {
		params = secrets.DefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.KeyLength != secrets.KeySize {
		return nil, fmt.Errorf("%w: AES-256 needs a %d-byte key, got key length %d", kerrors.ErrInvalidInput, secrets.KeySize, params.KeyLength)
	}

	layout, err := resolveLayout(opts.StoreDir, opts.RecordFile)
	if err != nil {
		return nil, err
	}

	exists, err := store.Exists(layout.RecordPath())
	if err != nil {
		return nil, err
	}
	if exists && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrRecordExists, layout.RecordPath())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	salt, err := secrets.GenerateSalt(params.SaltLength)
	if err != nil {
		return nil, err
	}

	key, err := secrets.DeriveKey(opts.Password, salt, params)
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(key)

	secret := opts.Secret
	if secret == nil {
		secret = opts.Password
	}

	sealed, err := secrets.Encrypt(secret, key)
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(sealed.IV)

	blob, err := secrets.ProtectIV(key, sealed.IV)
	if err != nil {
		return nil, err
	}

	result := &EncryptResult{
		Identifier:    opts.Identifier,
		RecordPath:    layout.RecordPath(),
		IVPath:        layout.IVPath(opts.Identifier),
		MetadataPath:  layout.MetadataPath(opts.Identifier),
		CiphertextHex: sealed.CiphertextHex,
		Params:        params,
		Replaced:      exists,
	}

	metadata := configs.NewRecordMetadata(opts.Identifier, params, salt)
	sidecar, err := configs.EncodeRecordMetadata(metadata)
	if err != nil {
		return nil, err
	}
	result.RecordUUID = metadata.Record.UUID

	batch := store.NewBatch(layout.Dir)
	defer batch.Abort()

	if err := batch.Stage(result.IVPath, blob); err != nil {
		return nil, err
	}
	if err := batch.Stage(result.MetadataPath, sidecar); err != nil {
		return nil, err
	}
	record := store.Record{Identifier: opts.Identifier, CiphertextHex: sealed.CiphertextHex}
	if err := batch.StageRecord(result.RecordPath, record); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := commitBatch(batch); err != nil {
		return nil, err
	}

	auditEntry := audit.NewEntry("encrypt")
	auditEntry.Identifier = opts.Identifier
	auditEntry.RecordUUID = result.RecordUUID
	auditEntry.Hash = params.Hash.String()
	auditEntry.Iterations = params.Iterations
	auditEntry.Files = []string{layout.RecordFile, opts.Identifier + store.IVFileSuffix, opts.Identifier + store.MetadataFileSuffix}
	audit.Log(layout.AuditLogPath(), auditEntry)

	return result, nil
}
