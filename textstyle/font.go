package textstyle

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultFallbackFamily is used when none of the requested families could be
// loaded.
const DefaultFallbackFamily = "Inter"

// FontName identifies font by family and style (weight name).
type FontName struct {
	Family string
	Style  string
}

func (f FontName) String() string {
	return f.Family + " " + f.Style
}

// FontLoader is implemented by host. LoadFont returns error if font is not
// available.
type FontLoader interface {
	LoadFont(ctx context.Context, font FontName) error
}

// Candidates returns fonts to try for the descriptor in order of preference.
func Candidates(d Descriptor) []FontName {
	style := d.Weight()
	families := d.Families()
	fonts := make([]FontName, 0, len(families))
	for _, family := range families {
		fonts = append(fonts, FontName{Family: family, Style: style})
	}
	return fonts
}

// ResolveFont picks font family for the descriptor. Candidates are tried one
// at a time, the first one loader accepts wins. When nothing could be loaded
// fallback family with the same style is loaded instead. Empty fallback means
// DefaultFallbackFamily.
func ResolveFont(ctx context.Context, d Descriptor, loader FontLoader, fallback string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fallback) == 0 {
		fallback = DefaultFallbackFamily
	}

	for _, font := range Candidates(d) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := loader.LoadFont(ctx, font); err != nil {
			log.Warn("Failed to load font family", zap.String("family", font.Family), zap.String("style", font.Style), zap.Error(err))
			continue
		}
		return font.Family, nil
	}

	font := FontName{Family: fallback, Style: d.Weight()}
	if err := loader.LoadFont(ctx, font); err != nil {
		return "", fmt.Errorf("unable to load fallback font %s: %w", font, err)
	}
	log.Warn("No available fonts found, using fallback", zap.String("style", d.DisplayName()), zap.String("family", fallback))
	return fallback, nil
}
