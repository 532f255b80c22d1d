package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mykadocr/internal/config"
	"mykadocr/internal/ic"
	"mykadocr/internal/logger"
	"mykadocr/pkg/models"
)

var batchCmd = &cobra.Command{
	Use:   "batch [folder-path]",
	Short: "Process all card images in a folder",
	Long: `Process every card image in a folder and collect the extracted records.

All JPG and PNG files in the folder are processed in parallel through the
orientation selector and field extraction pipeline. Results keep the
original file order regardless of which worker finished first.

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 4)`,
	Example: `  # Process a folder of card scans
  mykadocr batch ./cards

  # Write all records to one JSON file
  mykadocr batch ./cards -o records.json

  # Verbose per-file logging
  mykadocr batch ./cards --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// ScanResult represents the result of processing a single image
type ScanResult struct {
	Filename string                 `json:"filename"`
	Record   *models.IdentityRecord `json:"record,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Index    int                    `json:"-"`
}

// scanJob represents an image processing job
type scanJob struct {
	FilePath string
	Index    int
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("output", "o", "", "Output file path for the combined JSON results")
	batchCmd.Flags().Bool("verbose", false, "Show detailed processing information")
	batchCmd.Flags().Int("timeout", 1800, "Total processing timeout in seconds")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("batch")

	folderPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info().
		Str("folder", folderPath).
		Str("engine", cfg.OCREngine).
		Bool("verbose", verbose).
		Msg("Starting batch processing")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	service, err := createService(ctx, cfg, log)
	if err != nil {
		return err
	}

	imageFiles, err := findImageFiles(folderPath)
	if err != nil {
		return fmt.Errorf("failed to find image files: %w", err)
	}
	if len(imageFiles) == 0 {
		fmt.Println("No image files found in folder.")
		return nil
	}

	numWorkers := getNumWorkers()
	fmt.Printf("Processing %d images with %d parallel workers...\n\n", len(imageFiles), numWorkers)

	startTime := time.Now()
	results := processImagesInParallel(ctx, imageFiles, service, cfg, numWorkers, log, verbose)

	successCount := 0
	errorCount := 0
	for _, result := range results {
		if result.Error == "" {
			successCount++
		} else {
			errorCount++
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Processed:  %d\n", len(results))
	fmt.Printf("Successful: %d\n", successCount)
	if errorCount > 0 {
		fmt.Printf("Failed:     %d\n", errorCount)
	}
	fmt.Printf("Duration:   %s\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Println(strings.Repeat("=", 50))

	if outputPath != "" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Results written to %s\n", outputPath)
	}

	log.Info().
		Int("total", len(imageFiles)).
		Int("success", successCount).
		Int("errors", errorCount).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing completed")

	return nil
}

// findImageFiles finds all JPG and PNG files in the specified folder
func findImageFiles(folderPath string) ([]string, error) {
	var imageFiles []string

	err := filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".jpg", ".jpeg", ".png":
			imageFiles = append(imageFiles, path)
		}

		return nil
	})

	return imageFiles, err
}

// getNumWorkers returns the number of workers from environment or default
func getNumWorkers() int {
	if workersStr := os.Getenv("BATCH_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			return workers
		}
	}
	return 4 // OCR is CPU heavy, keep the default modest
}

// processImagesInParallel processes images using a worker pool pattern
func processImagesInParallel(ctx context.Context, imageFiles []string, service *ic.Service, cfg *config.Config, numWorkers int, log zerolog.Logger, verbose bool) []ScanResult {
	// Create job channel and result slice
	jobs := make(chan scanJob, len(imageFiles))
	results := make([]ScanResult, len(imageFiles))

	// Create progress tracking
	var processedCount int
	var mu sync.Mutex

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.FilePath).
					Int("index", job.Index+1).
					Msg("Worker processing image")

				result := ScanResult{
					Filename: filepath.Base(job.FilePath),
					Index:    job.Index,
				}

				record, err := processImageFile(ctx, service, cfg, job.FilePath, log)
				if err != nil {
					result.Error = err.Error()
				} else {
					result.Record = record
					if verbose {
						log.Info().
							Str("file", result.Filename).
							Str("id_number", record.IDNumber).
							Str("name", record.Name).
							Int("orientation", record.OrientationAngle).
							Msg("Image processed successfully")
					}
				}

				// Store result in correct position
				results[job.Index] = result

				// Update progress safely
				mu.Lock()
				processedCount++
				currentCount := processedCount
				fmt.Printf("[%d/%d] %s", currentCount, len(imageFiles), result.Filename)
				if result.Error != "" {
					fmt.Printf(" - FAILED (%s)", result.Error)
				} else if result.Record.IDNumber != "" {
					fmt.Printf(" - %s", result.Record.IDNumber)
				}
				fmt.Println()
				mu.Unlock()
			}
		}(w)
	}

	// Send jobs
	for i, imageFile := range imageFiles {
		jobs <- scanJob{
			FilePath: imageFile,
			Index:    i,
		}
	}
	close(jobs)

	// Wait for all workers to complete
	wg.Wait()

	return results
}
