package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	pdfmarkdown "github.com/pyhub-apps/pdfmarkdown"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>...",
	Short: "Convert PDF files to Markdown",
	Long: `Convert writes <name>.md for every PDF, next to the PDF unless --out is
given, and stores the images of the document in images_<name>/ beside it.
A file that fails does not stop the others; the command exits non-zero
once all files are processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0

		for _, path := range args {
			mdPath, imagesDir, err := pdfmarkdown.OutputPaths(path, cfg.OutputDir)
			if err != nil {
				logger.WithField("file", path).WithError(err).Error("Conversion failed")
				failed++
				continue
			}

			fmt.Fprintf(out, "Processing: %s\n", filepath.Base(path))
			fmt.Fprintf(out, "Output: %s\n", mdPath)
			fmt.Fprintf(out, "Images: %s\n", imagesDir)

			result, err := pdfmarkdown.ConvertFile(cmd.Context(), path, pdfmarkdown.FileOptions{
				Config:    cfg.Markdown(),
				OutputDir: cfg.OutputDir,
				Password:  password,
				Logger:    logger,
				OnPage: func(done, total int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Processing page %d/%d...\r", done, total)
				},
			})
			if err != nil {
				logger.WithField("file", path).WithError(err).Error("Conversion failed")
				failed++
				continue
			}

			fmt.Fprintf(out, "\nDone! Saved to: %s\n", result.Markdown)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

var password string

func init() {
	convertCmd.Flags().String("out", "", "output directory (default: the directory of each PDF)")
	convertCmd.Flags().Int("workers", 1, "number of pages converted concurrently")
	convertCmd.Flags().StringVar(&password, "password", "", "password for encrypted PDFs")
	mustBind("output_dir", convertCmd.Flags().Lookup("out"))
	mustBind("workers", convertCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(convertCmd)
}
