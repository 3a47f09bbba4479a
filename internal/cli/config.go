package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration
type Config struct {
	StoreBackend  string
	StoreDir      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OCRBaseURL string
	OCRModel   string

	TranslationProvider string
	TranslationModel    string
	TranslationBaseURL  string

	ServerAddr string
	ServerMode string
	LogMode    string
}

// DefaultStoreDir is where file and sqlite stores live by default
func DefaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".readitfortheplot")
	}
	return filepath.Join(home, ".local", "state", "readitfortheplot")
}

func setDefaults() {
	viper.SetDefault("store.backend", "file")
	viper.SetDefault("store.dir", DefaultStoreDir())
	viper.SetDefault("store.redis_addr", "localhost:6379")
	viper.SetDefault("store.redis_db", 0)
	viper.SetDefault("ocr.base_url", "https://api.deepseek.com/v1")
	viper.SetDefault("ocr.model", "deepseek-chat")
	viper.SetDefault("translation.provider", "gemini")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("log.mode", "debug")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".readitfortheplot" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".readitfortheplot")
	}

	// Environment variables, e.g. READITFORTHEPLOT_STORE_BACKEND
	viper.SetEnvPrefix("READITFORTHEPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadConfig reads the resolved configuration from viper
func LoadConfig() Config {
	dir := viper.GetString("store.dir")
	if dir == "" {
		dir = DefaultStoreDir()
	}

	return Config{
		StoreBackend:        viper.GetString("store.backend"),
		StoreDir:            dir,
		RedisAddr:           viper.GetString("store.redis_addr"),
		RedisPassword:       viper.GetString("store.redis_password"),
		RedisDB:             viper.GetInt("store.redis_db"),
		OCRBaseURL:          viper.GetString("ocr.base_url"),
		OCRModel:            viper.GetString("ocr.model"),
		TranslationProvider: strings.ToLower(viper.GetString("translation.provider")),
		TranslationModel:    viper.GetString("translation.model"),
		TranslationBaseURL:  viper.GetString("translation.base_url"),
		ServerAddr:          viper.GetString("server.addr"),
		ServerMode:          viper.GetString("server.mode"),
		LogMode:             viper.GetString("log.mode"),
	}
}

// GetOCRKey retrieves the OCR API key from environment or config
func GetOCRKey() string {
	// First check environment variable
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("ocr.api_key")
}

// GetTranslationKey retrieves the translation API key for provider from
// environment or config
func GetTranslationKey(provider string) string {
	env := "GEMINI_API_KEY"
	if provider == "openai" {
		env = "OPENAI_API_KEY"
	}
	if key := os.Getenv(env); key != "" {
		return key
	}

	return viper.GetString("translation.api_key")
}
