package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/readitfortheplot/internal"
	"codeberg.org/snonux/readitfortheplot/internal/settings"
)

// Actions performs the work behind each command
type Actions interface {
	Translate(ctx context.Context, ref string) error
	Serve(ctx context.Context) error
	ShowSettings(ctx context.Context) error
	SaveSettings(ctx context.Context, update SettingsUpdate) error
	ClearCache(ctx context.Context) error
	CacheStats(ctx context.Context) error
	ListModels(ctx context.Context) error
}

// SettingsUpdate carries the settings given on the command line; nil
// fields keep their stored value
type SettingsUpdate struct {
	OCRKey         *string
	TranslationKey *string
	SourceLanguage *string
	TargetLanguage *string
	EnableCache    *bool
	ShowButtons    *bool
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, actions Actions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "readitfortheplot",
		Short: "Translate the text in images",
		Long: `readitfortheplot finds the text in an image, translates it and draws
the translation over the original text.

Text is recognized with DeepSeek and translated with Gemini or OpenAI.
Results are cached for seven days.

Examples:
  readitfortheplot translate page.png -o page.en.png
  readitfortheplot translate https://example.com/comic.jpg --target de
  readitfortheplot serve --addr :8080
  readitfortheplot settings save --ocr-key sk-... --translation-key AIza...`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ListModels {
				return actions.ListModels(cmd.Context())
			}
			return cmd.Help()
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newTranslateCommand(flags, actions),
		newServeCommand(flags, actions),
		newSettingsCommand(flags, actions),
		newCacheCommand(actions),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.readitfortheplot.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogMode, "log-mode", flags.LogMode, "Log mode: debug or release")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().StringVar(&flags.StoreBackend, "store", flags.StoreBackend, "Storage backend: file, sqlite, redis or memory")
	cmd.PersistentFlags().StringVar(&flags.StoreDir, "store-dir", "", "Directory for file and sqlite storage")
	cmd.PersistentFlags().StringVar(&flags.OCRBaseURL, "ocr-base-url", flags.OCRBaseURL, "OpenAI compatible endpoint for text recognition")
	cmd.PersistentFlags().StringVar(&flags.OCRModel, "ocr-model", flags.OCRModel, "Model used for text recognition")
	cmd.PersistentFlags().StringVar(&flags.TranslationProvider, "translation-provider", flags.TranslationProvider, "Translation provider: gemini or openai")
	cmd.PersistentFlags().StringVar(&flags.TranslationModel, "translation-model", "", "Model used for translation (default depends on provider)")

	// Local flags
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models available to the configured OCR key")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.mode", cmd.PersistentFlags().Lookup("log-mode"))
	viper.BindPFlag("store.backend", cmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store.dir", cmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("ocr.base_url", cmd.PersistentFlags().Lookup("ocr-base-url"))
	viper.BindPFlag("ocr.model", cmd.PersistentFlags().Lookup("ocr-model"))
	viper.BindPFlag("translation.provider", cmd.PersistentFlags().Lookup("translation-provider"))
	viper.BindPFlag("translation.model", cmd.PersistentFlags().Lookup("translation-model"))
}

func newTranslateCommand(flags *Flags, actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <image>",
		Short: "Translate the text in an image file, URL or data URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Translate(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Write the image with the overlay to this file")
	cmd.Flags().BoolVar(&flags.ShowOriginal, "original", false, "Toggle the overlay off again before writing the output")
	cmd.Flags().StringVarP(&flags.SourceLanguage, "source", "s", "", "Source language code (default from settings)")
	cmd.Flags().StringVarP(&flags.TargetLanguage, "target", "t", "", "Target language code (default from settings)")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Bypass the translation cache")
	return cmd
}

func newServeCommand(flags *Flags, actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.ServerAddr, "addr", flags.ServerAddr, "Listen address")
	cmd.Flags().StringVar(&flags.ServerMode, "mode", flags.ServerMode, "Gin mode: debug, release or test")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.mode", cmd.Flags().Lookup("mode"))
	return cmd
}

func newSettingsCommand(flags *Flags, actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings with keys masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.ShowSettings(cmd.Context())
		},
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Save settings; both API keys are required",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return actions.SaveSettings(cmd.Context(), settingsUpdate(cmd, flags))
		},
	}
	save.Flags().StringVar(&flags.OCRKey, "ocr-key", "", "DeepSeek API key")
	save.Flags().StringVar(&flags.TranslationKey, "translation-key", "", "Gemini or OpenAI API key")
	save.Flags().StringVar(&flags.SourceLanguage, "source", "", "Source language code or auto")
	save.Flags().StringVar(&flags.TargetLanguage, "target", "", "Target language code")
	save.Flags().BoolVar(&flags.EnableCache, "enable-cache", flags.EnableCache, "Cache translation results")
	save.Flags().BoolVar(&flags.ShowButtons, "show-buttons", flags.ShowButtons, "Offer translate controls on images")

	cmd.AddCommand(show, save)
	return cmd
}

func settingsUpdate(cmd *cobra.Command, flags *Flags) SettingsUpdate {
	var u SettingsUpdate
	changed := cmd.Flags().Changed
	if changed("ocr-key") {
		u.OCRKey = &flags.OCRKey
	}
	if changed("translation-key") {
		u.TranslationKey = &flags.TranslationKey
	}
	if changed("source") {
		u.SourceLanguage = &flags.SourceLanguage
	}
	if changed("target") {
		u.TargetLanguage = &flags.TargetLanguage
	}
	if changed("enable-cache") {
		u.EnableCache = &flags.EnableCache
	}
	if changed("show-buttons") {
		u.ShowButtons = &flags.ShowButtons
	}
	return u
}

func newCacheCommand(actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached translations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return actions.ClearCache(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show the number and size of cached translations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return actions.CacheStats(cmd.Context())
			},
		},
	)
	return cmd
}

// Apply returns s with every set field of u applied
func (u SettingsUpdate) Apply(s settings.Settings) settings.Settings {
	if u.OCRKey != nil {
		s.OCRKey = *u.OCRKey
	}
	if u.TranslationKey != nil {
		s.TranslationKey = *u.TranslationKey
	}
	if u.SourceLanguage != nil {
		s.SourceLanguage = *u.SourceLanguage
	}
	if u.TargetLanguage != nil {
		s.TargetLanguage = *u.TargetLanguage
	}
	if u.EnableCache != nil {
		s.EnableCache = *u.EnableCache
	}
	if u.ShowButtons != nil {
		s.ShowButtons = *u.ShowButtons
	}
	return s
}
