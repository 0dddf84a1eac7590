package config

const (
	defaultRootDir         = "~/.local/share/tdocportal"
	defaultLogDir          = "~/.local/share/tdocportal/logs"
	defaultManifestBaseURL = "https://www.3gpp.org/ftp/meetings_3gpp_sync/RAN1/Docs/"
	defaultManifestPattern = `R1-\d{7}\.zip$`
	defaultManifestTimeout = 30
	defaultStageWorkers    = 4
	defaultDownloadTimeout = 60
	defaultMinArchiveBytes = 22
	defaultEngineURL       = "http://localhost:5001"
	defaultEngineTimeout   = 300
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultDocumentKinds() []string {
	return []string{".pdf", ".docx", ".doc", ".pptx", ".ppt", ".xlsx", ".xls"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootDir: defaultRootDir,
			LogDir:  defaultLogDir,
		},
		Manifest: Manifest{
			BaseURL:        defaultManifestBaseURL,
			Pattern:        defaultManifestPattern,
			TimeoutSeconds: defaultManifestTimeout,
		},
		Download: Download{
			Workers:         defaultStageWorkers,
			TimeoutSeconds:  defaultDownloadTimeout,
			MinArchiveBytes: defaultMinArchiveBytes,
		},
		Extract: Extract{
			Workers: defaultStageWorkers,
		},
		// EngineURL is resolved during normalization so the
		// TDOC_DOCLING_URL environment fallback can take effect.
		Convert: Convert{
			Workers:        defaultStageWorkers,
			TimeoutSeconds: defaultEngineTimeout,
			DocumentKinds:  defaultDocumentKinds(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
