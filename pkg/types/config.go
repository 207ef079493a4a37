package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OCRConfig holds the external tool settings for the OCR stage.
type OCRConfig struct {
	// Ocrmypdf is the binary name or absolute path (default "ocrmypdf").
	Ocrmypdf string `json:"ocrmypdf" yaml:"ocrmypdf"`

	// Pdftotext is the binary name or absolute path (default "pdftotext").
	Pdftotext string `json:"pdftotext" yaml:"pdftotext"`
}

// Validate validates the OCR configuration.
func (c OCRConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Ocrmypdf, validation.Required),
		validation.Field(&c.Pdftotext, validation.Required),
	)
}

// ResolveConfig holds the date-resolution heuristics. The defaults are
// deliberate and should not be changed without evidence they are wrong.
type ResolveConfig struct {
	// StalenessWindowDays demotes a text-scanned date to needs-confirmation
	// when it lies strictly more than this many days from the current date
	// (default 365). Filename-derived dates are never demoted.
	StalenessWindowDays int `json:"staleness_window_days" yaml:"staleness_window_days"`

	// YearPivot expands two-digit years: values strictly greater than the
	// pivot map to 19xx, the rest to 20xx (default 50, range 1-99).
	YearPivot int `json:"year_pivot" yaml:"year_pivot"`
}

// Validate validates the resolution configuration. Required is what rejects
// a configured pivot of zero: ozzo threshold rules skip zero values.
func (c ResolveConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.StalenessWindowDays, validation.Min(1)),
		validation.Field(&c.YearPivot, validation.Required, validation.Max(99)),
	)
}

// RefileConfig holds settings for the refiling stage.
type RefileConfig struct {
	// DestRoot is the root of the datetree (dest_root/YYYY/MM/DD).
	DestRoot string `json:"dest_root" yaml:"dest_root"`
}

// JournalConfig holds settings for the refile journal.
type JournalConfig struct {
	// Enabled controls whether completed refiles are recorded (default true).
	// The journal is informational only; the datetree itself remains the
	// source of truth.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the journal directory. Empty means <dest_root>/.refile.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// PipelineConfig groups all stage configurations for a run.
type PipelineConfig struct {
	OCR     OCRConfig     `json:"ocr" yaml:"ocr"`
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Refile  RefileConfig  `json:"refile" yaml:"refile"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// Validate validates the whole pipeline configuration.
func (c PipelineConfig) Validate() error {
	if err := c.OCR.Validate(); err != nil {
		return err
	}
	return c.Resolve.Validate()
}

// DefaultPipelineConfig returns the configuration used when no config file
// or flags override it.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		OCR: OCRConfig{
			Ocrmypdf:  "ocrmypdf",
			Pdftotext: "pdftotext",
		},
		Resolve: ResolveConfig{
			StalenessWindowDays: 365,
			YearPivot:           50,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}
