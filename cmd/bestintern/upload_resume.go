package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/bestintern/internal/pdf"
	"github.com/spf13/cobra"
)

var uploadResumeCmd = &cobra.Command{
	Use:   "upload-resume <file>",
	Short: "Store a PDF resume in the configured bucket",
	Long:  "Check that a file is a readable PDF and upload it, so that parse-resume --object can read it later.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadResume,
}

var uploadResumeKey string

func init() {
	uploadResumeCmd.Flags().StringVar(&uploadResumeKey, "key", "", "Object key (default: resumes/<file name>)")

	rootCmd.AddCommand(uploadResumeCmd)
}

type uploadOutput struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Pages  int    `json:"pages"`
	Bytes  int    `json:"bytes"`
}

func runUploadResume(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	reader, err := pdf.FromBytes(data)
	if err != nil {
		return err
	}

	store, err := newObjectStore()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}

	key := uploadResumeKey
	if key == "" {
		key = "resumes/" + filepath.Base(args[0])
	}
	if err := store.Put(ctx, key, data, "application/pdf"); err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), uploadOutput{
		Bucket: store.Bucket(),
		Key:    key,
		Pages:  reader.TotalPages(),
		Bytes:  len(data),
	})
}
