package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mykadocr/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "mykadocr",
	Short: "mykadocr - Extract structured fields from Malaysian identity cards",
	Long: `mykadocr reads scans or photos of Malaysian identity cards (MyKad),
finds the readable orientation, runs OCR and extracts structured fields:
identity number, name, gender, religion and address.

Extraction is rule based. OCR misreads are corrected with an ordered rule
table, merged Malay words are split with a dictionary, and the postcode in
the extracted address is checked against the Malaysian postcode database.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("mykadocr executed")

		fmt.Println("mykadocr - Malaysian identity card field extraction")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
