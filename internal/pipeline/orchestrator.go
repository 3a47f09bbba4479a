package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/fingerprint"
	"codeberg.org/snonux/readitfortheplot/internal/imagesource"
	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/ocr"
	"codeberg.org/snonux/readitfortheplot/internal/settings"
	"codeberg.org/snonux/readitfortheplot/internal/translation"
)

// MissingKeysMessage is returned when either credential is absent
const MissingKeysMessage = "API keys not configured. Please set them in the settings."

// Cache is the result cache used by the orchestrator
type Cache interface {
	Get(ctx context.Context, key string) (model.TranslationResult, bool)
	Put(ctx context.Context, key string, result model.TranslationResult)
}

// Loader resolves image references into bytes
type Loader interface {
	Load(ctx context.Context, ref string) (*imagesource.Image, error)
}

// Request is one translation request. ImageURL is the stable reference
// that identifies the image; ImageDataURL carries the pixels inline and is
// loaded from ImageURL when empty.
type Request struct {
	ImageURL     string `json:"imageUrl"`
	ImageDataURL string `json:"imageDataUrl"`
}

// Orchestrator wires cache, OCR and translation together
type Orchestrator struct {
	recognizer ocr.Recognizer
	translator translation.Translator
	cache      Cache
	loader     Loader
	logger     *zap.Logger
}

// New creates an orchestrator. loader may be nil when callers only use Run.
func New(recognizer ocr.Recognizer, translator translation.Translator, cache Cache, loader Loader, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		recognizer: recognizer,
		translator: translator,
		cache:      cache,
		loader:     loader,
		logger:     logger,
	}
}

// Handle resolves the request's image and runs it
func (o *Orchestrator) Handle(ctx context.Context, req Request, s settings.Settings) model.TranslationResult {
	if !s.HasKeys() {
		return model.Failed(MissingKeysMessage)
	}

	ref := req.ImageDataURL
	if ref == "" {
		ref = req.ImageURL
	}
	if ref == "" {
		return model.Failed("no image given")
	}
	if o.loader == nil {
		return model.Failed("no image loader configured")
	}

	img, err := o.loader.Load(ctx, ref)
	if err != nil {
		o.logger.Error("Failed to load image", zap.String("image", req.ImageURL), zap.Error(err))
		return model.Failed(err.Error())
	}

	reference := req.ImageURL
	if reference == "" {
		reference = img.Reference
	}
	return o.Run(ctx, img.Data, reference, s)
}

// Run translates imageData. imageReference identifies the image for the
// cache; when empty the bytes are fingerprinted instead.
func (o *Orchestrator) Run(ctx context.Context, imageData []byte, imageReference string, s settings.Settings) (result model.TranslationResult) {
	if !s.HasKeys() {
		return model.Failed(MissingKeysMessage)
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Translation pipeline panicked", zap.Any("panic", r))
			result = model.Failed(fmt.Sprintf("internal error: %v", r))
		}
	}()

	key := fingerprint.Of(imageReference)
	if imageReference == "" {
		key = fingerprint.OfBytes(imageData)
	}
	log := o.logger.With(zap.String("fingerprint", key))

	if s.EnableCache && o.cache != nil {
		if cached, ok := o.cache.Get(ctx, key); ok {
			log.Debug("Using cached translation")
			return cached
		}
	}

	result, err := o.translate(ctx, imageData, s)
	if err != nil {
		if errors.Is(err, model.ErrNoTextFound) {
			log.Info("No text found in image")
		} else {
			log.Error("Translation pipeline failed", zap.Error(err))
		}
		return model.Failed(errorMessage(err))
	}

	if s.EnableCache && o.cache != nil {
		o.cache.Put(ctx, key, result)
	}

	log.Info("Image translated", zap.Int("regions", len(result.Texts)))
	return result
}

func (o *Orchestrator) translate(ctx context.Context, imageData []byte, s settings.Settings) (model.TranslationResult, error) {
	regions, err := o.recognizer.Recognize(ctx, imageData, s.OCRKey)
	if err != nil {
		return model.TranslationResult{}, err
	}
	if len(regions) == 0 {
		return model.TranslationResult{}, model.NewNoTextFoundError()
	}

	translated, err := o.translator.Translate(ctx, regions, s.SourceLanguage, s.TargetLanguage, s.TranslationKey)
	if err != nil {
		return model.TranslationResult{}, err
	}

	return model.Succeeded(translated, regions), nil
}

// errorMessage prefers the user facing message of classified errors
func errorMessage(err error) string {
	var e *model.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
