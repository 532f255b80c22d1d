package config

import (
	"testing"

	"mykadocr/internal/ocr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"OCR_ENGINE", "TESSERACT_LANGUAGES",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "DOCUMENT_AI_PROCESSOR_ID",
		"POSTCODE_DB_PATH", "MAX_IMAGE_DIMENSION",
		"ORIENT_KEYWORD_WEIGHT", "ORIENT_ID_PATTERN_WEIGHT",
		"ORIENT_EARLY_EXIT_SCORE", "ORIENT_EARLY_EXIT_LINES", "ORIENT_PARALLEL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.OCREngine != ocr.EngineTesseract {
		t.Errorf("OCREngine = %q, want %q", cfg.OCREngine, ocr.EngineTesseract)
	}
	if cfg.PostcodeDBPath != "malaysia_postcodes.json" {
		t.Errorf("PostcodeDBPath = %q", cfg.PostcodeDBPath)
	}
	if cfg.MaxImageDimension != 1500 {
		t.Errorf("MaxImageDimension = %d, want 1500", cfg.MaxImageDimension)
	}
	if cfg.GoogleCloudLocation != "us" {
		t.Errorf("GoogleCloudLocation = %q, want us", cfg.GoogleCloudLocation)
	}
	if cfg.OrientParallel {
		t.Error("OrientParallel defaulted to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCR_ENGINE", ocr.EngineVision)
	t.Setenv("TESSERACT_LANGUAGES", "msa, eng, chi_sim")
	t.Setenv("MAX_IMAGE_DIMENSION", "2000")
	t.Setenv("ORIENT_PARALLEL", "true")
	t.Setenv("ORIENT_KEYWORD_WEIGHT", "3.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.OCREngine != ocr.EngineVision {
		t.Errorf("OCREngine = %q", cfg.OCREngine)
	}
	if len(cfg.TesseractLanguages) != 3 || cfg.TesseractLanguages[2] != "chi_sim" {
		t.Errorf("TesseractLanguages = %v", cfg.TesseractLanguages)
	}
	if cfg.MaxImageDimension != 2000 {
		t.Errorf("MaxImageDimension = %d", cfg.MaxImageDimension)
	}

	params := cfg.OrientationParams()
	if !params.Parallel {
		t.Error("Params.Parallel = false, want true")
	}
	if params.KeywordWeight != 3.5 {
		t.Errorf("Params.KeywordWeight = %v, want 3.5", params.KeywordWeight)
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCR_ENGINE", "abbyy")

	if _, err := Load(); err == nil {
		t.Error("Load accepted an unknown engine")
	}
}

func TestLoadDocumentAIRequiresProject(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCR_ENGINE", ocr.EngineDocumentAI)
	t.Setenv("DOCUMENT_AI_PROCESSOR_ID", "proc-1")

	if _, err := Load(); err == nil {
		t.Error("Load accepted documentai engine without GOOGLE_CLOUD_PROJECT")
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj-1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ec := cfg.EngineConfig()
	if ec.Kind != ocr.EngineDocumentAI || ec.ProjectID != "proj-1" || ec.ProcessorID != "proc-1" {
		t.Errorf("EngineConfig = %+v", ec)
	}
}

func TestLoadRejectsNegativeDimension(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_IMAGE_DIMENSION", "-1")

	if _, err := Load(); err == nil {
		t.Error("Load accepted a negative MAX_IMAGE_DIMENSION")
	}
}
