package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mykadocr/internal/config"
	"mykadocr/internal/logger"
	"mykadocr/internal/postcode"
)

var postcodeCmd = &cobra.Command{
	Use:   "postcode [code]",
	Short: "Look up a Malaysian postcode",
	Long: `Look up which state a five digit Malaysian postcode belongs to.

Uses the same postcode database the scan command uses for address
validation (POSTCODE_DB_PATH, default: malaysia_postcodes.json).`,
	Example: `  # Look up a Kuala Lumpur postcode
  mykadocr postcode 50480

  # Use an alternative database file
  mykadocr postcode 06800 --postcodes ./my_postcodes.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPostcode,
}

func init() {
	rootCmd.AddCommand(postcodeCmd)

	postcodeCmd.Flags().String("postcodes", "", "Postcode database path override")
}

func runPostcode(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("postcode")

	code := args[0]
	postcodesOverride, _ := cmd.Flags().GetString("postcodes")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if postcodesOverride != "" {
		cfg.PostcodeDBPath = postcodesOverride
	}

	table, err := postcode.Load(cfg.PostcodeDBPath)
	if err != nil {
		return fmt.Errorf("failed to load postcode database: %w", err)
	}

	log.Debug().
		Str("code", code).
		Int("postcodes", table.Len()).
		Msg("Postcode lookup")

	state, ok := table.Lookup(code)
	if !ok {
		fmt.Printf("%s: %s\n", code, postcode.NotFoundMessage)
		return nil
	}

	fmt.Printf("%s: %s\n", code, state)
	return nil
}
