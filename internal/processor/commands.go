package processor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/cli"
	"codeberg.org/snonux/readitfortheplot/internal/models"
	"codeberg.org/snonux/readitfortheplot/internal/server"
)

// Serve runs the HTTP API until ctx is cancelled
func (p *Processor) Serve(ctx context.Context) error {
	if err := p.init(); err != nil {
		return err
	}

	addr, mode := p.config.ServerAddr, p.config.ServerMode
	if addr == "" {
		addr = p.flags.ServerAddr
	}
	if mode == "" {
		mode = p.flags.ServerMode
	}

	srv := server.New(p.orchestrator, settingsSource{p: p}, p.cache, p.logger)
	return srv.Run(ctx, addr, mode)
}

// ShowSettings prints the effective settings with keys masked
func (p *Processor) ShowSettings(ctx context.Context) error {
	if err := p.init(); err != nil {
		return err
	}
	return p.printJSON(p.effectiveSettings(ctx).Masked())
}

// SaveSettings applies update to the stored settings and saves them
func (p *Processor) SaveSettings(ctx context.Context, update cli.SettingsUpdate) error {
	if err := p.init(); err != nil {
		return err
	}

	s := update.Apply(p.settings.Load(ctx))
	if err := p.settings.Save(ctx, s); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Settings saved")
	return nil
}

// ClearCache removes every cached translation
func (p *Processor) ClearCache(ctx context.Context) error {
	if err := p.init(); err != nil {
		return err
	}
	p.cache.Clear(ctx)
	p.logger.Info("Cache cleared")
	fmt.Fprintln(p.out, "Cache cleared")
	return nil
}

// CacheStats prints the number and size of cached translations
func (p *Processor) CacheStats(ctx context.Context) error {
	if err := p.init(); err != nil {
		return err
	}
	return p.printJSON(p.cache.Stats(ctx))
}

// ListModels prints the models available to the OCR key
func (p *Processor) ListModels(ctx context.Context) error {
	if err := p.init(); err != nil {
		return err
	}

	key := p.effectiveSettings(ctx).OCRKey
	p.logger.Debug("Listing models", zap.String("endpoint", p.config.OCRBaseURL))
	return models.NewLister(key, p.config.OCRBaseURL).ListAvailableModels(ctx, p.out)
}
