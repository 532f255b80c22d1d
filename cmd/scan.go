package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mykadocr/internal/config"
	"mykadocr/internal/ic"
	"mykadocr/internal/imaging"
	"mykadocr/internal/logger"
	"mykadocr/internal/ocr"
	"mykadocr/internal/postcode"
	"mykadocr/pkg/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Extract identity fields from a card image",
	Long: `Process a MyKad image and extract structured identity fields.

The image is tried at every rotation and mirror combination; the orientation
with the most readable card text wins. Recognized text then passes through
OCR error correction, Malay word splitting and field extraction.

Supported formats: JPG, PNG.

Environment variables:
  OCR_ENGINE             - tesseract (default), vision or documentai
  POSTCODE_DB_PATH       - Malaysian postcode database JSON (default: malaysia_postcodes.json)
  GOOGLE_CLOUD_PROJECT   - Required for the documentai engine
  DOCUMENT_AI_PROCESSOR_ID - Required for the documentai engine`,
	Example: `  # Extract fields from a card scan
  mykadocr scan card.jpg

  # Machine-readable output to a file
  mykadocr scan card.jpg --json -o record.json

  # Use Google Cloud Vision instead of local Tesseract
  mykadocr scan card.jpg --engine vision

  # Process with custom timeout
  mykadocr scan blurry-card.png --timeout 600`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().String("engine", "", "OCR engine override (tesseract, vision, documentai)")
	scanCmd.Flags().String("postcodes", "", "Postcode database path override")
	scanCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	engineOverride, _ := cmd.Flags().GetString("engine")
	postcodesOverride, _ := cmd.Flags().GetString("postcodes")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting card scan")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if engineOverride != "" {
		cfg.OCREngine = engineOverride
	}
	if postcodesOverride != "" {
		cfg.PostcodeDBPath = postcodesOverride
	}

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	service, err := createService(ctx, cfg, log)
	if err != nil {
		return err
	}

	startTime := time.Now()
	record, err := processImageFile(ctx, service, cfg, imagePath, log)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", imagePath).
			Msg("Card processing failed")
		return err
	}

	log.Info().
		Str("id_number", record.IDNumber).
		Str("document_type", record.DocumentType).
		Dur("duration", time.Since(startTime)).
		Msg("Card scan completed")

	return outputRecord(record, outputPath, jsonOutput, log)
}

// createService wires the OCR engine, the postcode table and the extraction
// pipeline from configuration.
func createService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*ic.Service, error) {
	engine, err := ocr.NewEngine(ctx, cfg.EngineConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	var table *postcode.Table
	if cfg.PostcodeDBPath != "" {
		table, err = postcode.Load(cfg.PostcodeDBPath)
		if err != nil {
			// Validation is advisory, a missing database only disables it.
			log.Warn().
				Err(err).
				Str("path", cfg.PostcodeDBPath).
				Msg("Postcode database unavailable, postcode validation disabled")
			table = nil
		} else {
			log.Debug().
				Int("postcodes", table.Len()).
				Msg("Postcode database loaded")
		}
	}

	return ic.NewService(engine, cfg.OrientationParams(), table), nil
}

// processImageFile decodes, size-normalizes and extracts one card image.
func processImageFile(ctx context.Context, service *ic.Service, cfg *config.Config, path string, log zerolog.Logger) (*models.IdentityRecord, error) {
	img, format, err := imaging.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	img = imaging.Downscale(img, cfg.MaxImageDimension)
	if img.Bounds() != bounds {
		log.Debug().
			Str("format", format).
			Int("width", img.Bounds().Dx()).
			Int("height", img.Bounds().Dy()).
			Msg("Image downscaled for recognition")
	}

	return service.Process(ctx, img)
}

// validateImageFile checks the file exists, is regular and looks like an image.
func validateImageFile(path string, log zerolog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", path).
				Msg("Image file not found")
			return fmt.Errorf("image file not found: %s", path)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied accessing image file: %s", path)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("image file is empty: %s", path)
	}

	ext := strings.ToLower(path)
	if !strings.HasSuffix(ext, ".jpg") && !strings.HasSuffix(ext, ".jpeg") && !strings.HasSuffix(ext, ".png") {
		log.Warn().
			Str("file", path).
			Msg("File does not have a recognized image extension")
	}

	return nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warn().
				Str("signal", sig.String()).
				Msg("Received signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// outputRecord writes the record as JSON or a readable field listing.
func outputRecord(record *models.IdentityRecord, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var content []byte

	if jsonOutput {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		content = data
	} else {
		content = []byte(formatRecord(record))
	}

	if outputPath == "" {
		fmt.Println(string(content))
		return nil
	}

	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info().
		Str("file", outputPath).
		Msg("Record written")
	return nil
}

func formatRecord(record *models.IdentityRecord) string {
	var sb strings.Builder

	writeField := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&sb, "%-14s %s\n", label+":", value)
	}

	writeField("ID Number", record.IDNumber)
	writeField("Name", record.Name)
	writeField("Gender", record.Gender)
	writeField("Religion", record.Religion)
	writeField("Address", record.Address)
	if pv := record.PostcodeValidation; pv != nil {
		if pv.Valid {
			writeField("Postcode", fmt.Sprintf("%s (%s)", pv.Postcode, pv.State))
		} else {
			writeField("Postcode", fmt.Sprintf("%s (%s)", pv.Postcode, pv.Message))
		}
	}
	writeField("Document", record.DocumentType)
	fmt.Fprintf(&sb, "%-14s %d°\n", "Orientation:", record.OrientationAngle)

	return sb.String()
}
