package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/PolarWolf314/cofre/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	StoreDir       string     `json:"store_dir"`
	HasRecord      bool       `json:"has_record"`
	Identifier     string     `json:"identifier,omitempty"`
	CiphertextSize int        `json:"ciphertext_bytes,omitempty"`
	IVFile         string     `json:"iv_file,omitempty"`
	IVFileStatus   string     `json:"iv_file_status,omitempty"`
	RecordUUID     string     `json:"record_uuid,omitempty"`
	CreatedAt      string     `json:"created_at,omitempty"`
	KDF            *statusKDF `json:"kdf,omitempty"`
	Orphans        []string   `json:"orphans"`
}

type statusKDF struct {
	Algorithm  string `json:"algorithm"`
	Hash       string `json:"hash"`
	Iterations int    `json:"iterations"`
	KeyLength  int    `json:"key_length"`
	Legacy     bool   `json:"legacy"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored record without decrypting it",
	Long: `Shows the identifier, ciphertext size, IV file state and key derivation
parameters of the stored record. No password is needed.

Use --json for machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		config, err := loadSecretsConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}
		storePath, err := config.StoreDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve store directory: %v", err)
		}

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{
			StoreDir:   storePath,
			RecordFile: config.Store.RecordFile,
		})
		if err != nil {
			return reportSecretsError(err)
		}

		output := buildStatusOutput(result, config.KDF.Hash, config.KDF.Iterations, config.KDF.KeyLength)

		if statusJSONOutput {
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to marshal status to JSON: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printStatus(output)
		return nil
	},
}

func buildStatusOutput(result *workflows.StatusResult, fallbackHash string, fallbackIterations, fallbackKeyLength int) statusOutput {
	output := statusOutput{
		StoreDir:  result.StoreDir,
		HasRecord: result.HasRecord,
		Orphans:   []string{},
	}
	for _, orphan := range result.Orphans {
		output.Orphans = append(output.Orphans, orphan.RelativePath)
	}

	if !result.HasRecord {
		return output
	}

	output.Identifier = result.Identifier
	output.CiphertextSize = result.CiphertextSize
	output.IVFile = result.IVPath
	switch {
	case !result.IVFilePresent:
		output.IVFileStatus = "missing"
	case !result.IVFileWellFormed:
		output.IVFileStatus = "malformed"
	default:
		output.IVFileStatus = "ok"
	}

	if result.Metadata != nil {
		output.RecordUUID = result.Metadata.Record.UUID
		if !result.Metadata.Record.CreatedAt.IsZero() {
			output.CreatedAt = result.Metadata.Record.CreatedAt.Format("2006-01-02 15:04:05 MST")
		}
		output.KDF = &statusKDF{
			Algorithm:  result.Metadata.KDF.Algorithm,
			Hash:       result.Metadata.KDF.Hash,
			Iterations: result.Metadata.KDF.Iterations,
			KeyLength:  result.Metadata.KDF.KeyLength,
		}
	} else {
		output.KDF = &statusKDF{
			Algorithm:  "pbkdf2",
			Hash:       fallbackHash,
			Iterations: fallbackIterations,
			KeyLength:  fallbackKeyLength,
			Legacy:     true,
		}
	}

	return output
}

func printStatus(output statusOutput) {
	fmt.Println(ui.Info.Sprint("Store: ") + ui.Path.Sprint(output.StoreDir))
	fmt.Println()

	if !output.HasRecord {
		fmt.Println(ui.Warning.Sprint("⚠") + " No secret record found")
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("cofre secrets encrypt") + " to create one")
	} else {
		fmt.Printf("  %-14s %s\n", "Identifier:", ui.Highlight.Sprint(output.Identifier))
		fmt.Printf("  %-14s %d bytes\n", "Ciphertext:", output.CiphertextSize)

		ivStatus := ui.Success.Sprint(output.IVFileStatus)
		if output.IVFileStatus != "ok" {
			ivStatus = ui.Error.Sprint(output.IVFileStatus)
		}
		fmt.Printf("  %-14s %s %s\n", "IV file:", ivStatus, ui.Muted.Sprint(output.IVFile))

		if output.RecordUUID != "" {
			fmt.Printf("  %-14s %s\n", "Record ID:", output.RecordUUID)
		}
		if output.CreatedAt != "" {
			fmt.Printf("  %-14s %s\n", "Created:", output.CreatedAt)
		}
		kdf := fmt.Sprintf("%s-%s, %d iterations, %d-byte key", output.KDF.Algorithm, output.KDF.Hash, output.KDF.Iterations, output.KDF.KeyLength)
		if output.KDF.Legacy {
			kdf += " " + ui.Warning.Sprint("(legacy record, configured parameters and fixed salt)")
		}
		fmt.Printf("  %-14s %s\n", "Key derivation:", kdf)
	}

	if len(output.Orphans) > 0 {
		fmt.Println()
		fmt.Printf("%s %d leftover file(s) from older records:\n", ui.Warning.Sprint("⚠"), len(output.Orphans))
		for _, orphan := range output.Orphans {
			fmt.Println("    - " + ui.Path.Sprint(orphan))
		}
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("cofre secrets clean") + " to remove them")
	}
}
