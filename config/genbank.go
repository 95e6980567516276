package config

import "time"

// GenBankConfig contains configuration for the NCBI datasets API used to
// resolve taxa and download genome archives.
type GenBankConfig struct {
	// BaseURL is the root of the datasets API.
	BaseURL string `env:"GENBANK_API_BASE_URL" envDefault:"https://api.ncbi.nlm.nih.gov/datasets/v2"`

	// APIKey is an optional NCBI API key sent with every request.
	// Requests work without one but are rate-limited more aggressively.
	APIKey string `env:"GENBANK_API_KEY"`

	// RequestTimeout bounds metadata lookups. Archive downloads use
	// DownloadTimeout instead since archives can be hundreds of megabytes.
	RequestTimeout time.Duration `env:"GENBANK_REQUEST_TIMEOUT" envDefault:"30s"`

	// DownloadTimeout bounds a single archive download.
	DownloadTimeout time.Duration `env:"GENBANK_DOWNLOAD_TIMEOUT" envDefault:"15m"`
}
