package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "eng", cfg.OCRLanguage)
	assert.Equal(t, EngineCLI, cfg.OCREngine)
	assert.True(t, cfg.CropTallImages)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
ocrEngine: library
ocrAttemptTimeout: 5s
cropTallImages: false
maxOcrConcurrent: 2
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_OCR_CONCURRENT", "6")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, EngineLibrary, cfg.OCREngine)
	assert.Equal(t, 5*time.Second, cfg.OCRAttemptTimeout)
	assert.False(t, cfg.CropTallImages)
	assert.Equal(t, int64(6), cfg.MaxOCRConcurrent)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RATE_LIMIT_BURST", "-3")
	t.Setenv("OCR_ATTEMPT_TIMEOUT", "soon")
	t.Setenv("CROP_TALL_IMAGES", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	def := Defaults()
	assert.Equal(t, def.RateLimitBurst, cfg.RateLimitBurst)
	assert.Equal(t, def.OCRAttemptTimeout, cfg.OCRAttemptTimeout)
	assert.Equal(t, def.CropTallImages, cfg.CropTallImages)
}

func TestValidateRejectsUnknownEngine(t *testing.T) {
	cfg := Defaults()
	cfg.OCREngine = "cloud"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsTinyUploadLimit(t *testing.T) {
	cfg := Defaults()
	cfg.MaxUploadBytes = 10
	assert.Error(t, cfg.Validate())
}
