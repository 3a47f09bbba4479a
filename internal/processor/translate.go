package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"codeberg.org/snonux/readitfortheplot/internal/imagesource"
	"codeberg.org/snonux/readitfortheplot/internal/model"
	"codeberg.org/snonux/readitfortheplot/internal/overlay"
	"codeberg.org/snonux/readitfortheplot/internal/render"
)

// imageElement is a decoded image shown at its natural size
type imageElement struct {
	ref      string
	geometry overlay.Geometry
}

func (e *imageElement) Key() string                { return e.ref }
func (e *imageElement) Reference() string          { return e.ref }
func (e *imageElement) Geometry() overlay.Geometry { return e.geometry }

// Translate recognizes and translates the text in ref, prints the result as
// JSON and optionally writes the image with its overlay
func (p *Processor) Translate(ctx context.Context, ref string) error {
	if err := p.init(); err != nil {
		return err
	}

	s := p.effectiveSettings(ctx)
	if p.flags.SourceLanguage != "" {
		s.SourceLanguage = p.flags.SourceLanguage
	}
	if p.flags.TargetLanguage != "" {
		s.TargetLanguage = p.flags.TargetLanguage
	}
	if p.flags.NoCache {
		s.EnableCache = false
	}

	img, err := p.loader.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	decoded, err := imaging.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := decoded.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	el := &imageElement{
		ref:      ref,
		geometry: overlay.Geometry{Width: w, Height: h, NaturalWidth: w, NaturalHeight: h},
	}

	// Inline images have no stable reference, so their bytes identify them
	cacheRef := ref
	if imagesource.IsDataURL(ref) {
		cacheRef = ""
	}

	compositor := render.NewCompositor(p.logger)
	controller := overlay.NewController(func(ctx context.Context, _ overlay.Element) model.TranslationResult {
		return p.orchestrator.Run(ctx, img.Data, cacheRef, s)
	}, compositor, overlay.Options{
		ShowButtons: s.ShowButtons,
		Logger:      p.logger,
		Context:     ctx,
	})

	ids := controller.Scan([]overlay.Element{el})
	if len(ids) == 0 {
		return fmt.Errorf("image is too small to translate: %dx%d, need at least %dx%d",
			bounds.Dx(), bounds.Dy(), overlay.MinImageSize, overlay.MinImageSize)
	}
	id := ids[0]
	compositor.Attach(id, decoded)

	if err := controller.Trigger(id); err != nil {
		return err
	}
	state, err := controller.Wait(ctx, id)
	if err != nil {
		return err
	}

	if state.Phase == overlay.PhaseError {
		if err := p.printJSON(model.Failed(state.Error)); err != nil {
			return err
		}
		return errors.New(state.Error)
	}
	if state.Result != nil {
		if err := p.printJSON(state.Result); err != nil {
			return err
		}
	}

	if p.flags.ShowOriginal {
		if err := controller.Toggle(id); err != nil {
			return err
		}
	}
	if p.flags.Output != "" {
		if err := compositor.Save(id, p.flags.Output); err != nil {
			return err
		}
		p.logger.Info("Wrote overlay image", zap.String("path", p.flags.Output),
			zap.Bool("translated", compositor.Visible(id)))
	}
	return nil
}

func (p *Processor) printJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
