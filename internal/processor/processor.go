package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/cache"
	"codeberg.org/snonux/readitfortheplot/internal/cli"
	"codeberg.org/snonux/readitfortheplot/internal/imagesource"
	"codeberg.org/snonux/readitfortheplot/internal/logging"
	"codeberg.org/snonux/readitfortheplot/internal/ocr"
	"codeberg.org/snonux/readitfortheplot/internal/pipeline"
	"codeberg.org/snonux/readitfortheplot/internal/settings"
	"codeberg.org/snonux/readitfortheplot/internal/store"
	"codeberg.org/snonux/readitfortheplot/internal/translation"
)

// Processor implements cli.Actions
type Processor struct {
	flags  *cli.Flags
	config cli.Config
	out    io.Writer

	once    sync.Once
	initErr error

	logger        *zap.Logger
	settingsStore store.Store
	cacheStore    store.Store
	recognizer    ocr.Recognizer
	translator    translation.Translator
	loader        *imagesource.Loader

	cache        *cache.Cache
	settings     *settings.Repository
	orchestrator *pipeline.Orchestrator
}

var _ cli.Actions = (*Processor)(nil)

// NewProcessor creates a processor writing command output to stdout.
// Components are built on first use so that configuration read by
// cobra.OnInitialize is in place.
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags: flags,
		out:   os.Stdout,
	}
}

func (p *Processor) init() error {
	p.once.Do(func() {
		p.initErr = p.build()
	})
	return p.initErr
}

// build fills every component not already set
func (p *Processor) build() error {
	p.config = cli.LoadConfig()

	if p.logger == nil {
		logger, err := logging.New(p.config.LogMode, p.flags.Quiet)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		p.logger = logger
	}

	var err error
	if p.settingsStore == nil {
		if p.settingsStore, err = p.openStore("settings"); err != nil {
			return err
		}
	}
	if p.cacheStore == nil {
		if p.cacheStore, err = p.openStore("cache"); err != nil {
			return err
		}
	}

	if p.recognizer == nil {
		config := ocr.DefaultConfig()
		if p.config.OCRBaseURL != "" {
			config.BaseURL = p.config.OCRBaseURL
		}
		if p.config.OCRModel != "" {
			config.Model = p.config.OCRModel
		}
		p.recognizer = ocr.NewDeepSeek(config, p.logger)
	}
	if p.translator == nil {
		if p.translator, err = p.newTranslator(); err != nil {
			return err
		}
	}
	if p.loader == nil {
		p.loader = imagesource.NewLoader(http.DefaultClient, imagesource.DefaultOptions())
	}

	p.cache = cache.New(p.cacheStore, cache.WithLogger(p.logger))
	p.settings = settings.NewRepository(p.settingsStore, p.logger)
	p.orchestrator = pipeline.New(p.recognizer, p.translator, p.cache, p.loader, p.logger)

	p.logger.Debug("Components ready",
		zap.String("store", p.config.StoreBackend),
		zap.String("ocr", p.recognizer.Name()),
		zap.String("translation", p.translator.Name()))
	return nil
}

func (p *Processor) openStore(name string) (store.Store, error) {
	s, err := store.Open(store.Config{
		Backend:       p.config.StoreBackend,
		Dir:           p.config.StoreDir,
		Name:          name,
		RedisAddr:     p.config.RedisAddr,
		RedisPassword: p.config.RedisPassword,
		RedisDB:       p.config.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", name, err)
	}
	return s, nil
}

func (p *Processor) newTranslator() (translation.Translator, error) {
	config := translation.Config{
		Model:   p.config.TranslationModel,
		BaseURL: p.config.TranslationBaseURL,
	}

	switch p.config.TranslationProvider {
	case "", "gemini":
		return translation.NewGemini(config, p.logger), nil
	case "openai":
		return translation.NewOpenAI(config, p.logger), nil
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", p.config.TranslationProvider)
	}
}

// effectiveSettings returns the stored settings with keys from the
// environment or config file taking precedence
func (p *Processor) effectiveSettings(ctx context.Context) settings.Settings {
	s := p.settings.Load(ctx)
	if key := cli.GetOCRKey(); key != "" {
		s.OCRKey = key
	}
	if key := cli.GetTranslationKey(p.config.TranslationProvider); key != "" {
		s.TranslationKey = key
	}
	return s
}

// Close releases the stores and flushes the logger
func (p *Processor) Close() error {
	var firstErr error
	for _, s := range []store.Store{p.settingsStore, p.cacheStore} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if p.logger != nil {
		_ = p.logger.Sync()
	}
	return firstErr
}

// settingsSource is the settings view handed to the HTTP server
type settingsSource struct {
	p *Processor
}

func (s settingsSource) Load(ctx context.Context) settings.Settings {
	return s.p.effectiveSettings(ctx)
}

func (s settingsSource) Save(ctx context.Context, v settings.Settings) error {
	return s.p.settings.Save(ctx, v)
}
