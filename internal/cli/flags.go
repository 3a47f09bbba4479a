package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	LogMode    string
	Quiet      bool
	ListModels bool

	// Storage flags
	StoreBackend string
	StoreDir     string

	// Provider flags
	OCRBaseURL          string
	OCRModel            string
	TranslationProvider string
	TranslationModel    string

	// Translate flags
	Output         string
	ShowOriginal   bool
	SourceLanguage string
	TargetLanguage string
	NoCache        bool

	// Serve flags
	ServerAddr string
	ServerMode string

	// Settings save flags
	OCRKey         string
	TranslationKey string
	EnableCache    bool
	ShowButtons    bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogMode:             "debug",
		StoreBackend:        "file",
		OCRBaseURL:          "https://api.deepseek.com/v1",
		OCRModel:            "deepseek-chat",
		TranslationProvider: "gemini",
		ServerAddr:          ":8080",
		ServerMode:          "release",
		EnableCache:         true,
		ShowButtons:         true,
	}
}
