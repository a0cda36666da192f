package convert

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssfig/css"
	"cssfig/paint"
	"cssfig/sink"
	"cssfig/textstyle"
)

// Notification texts.
const (
	msgVariablesDone   = "CSS variables extracted successfully."
	msgVariablesFailed = "Failed to extract CSS variables."
	msgTextsDone       = "Text styles created successfully."
)

// Options control pipeline behavior.
type Options struct {
	// FallbackFamily is used when none of requested families is available,
	// empty means textstyle.DefaultFallbackFamily.
	FallbackFamily string
	// SkipExisting prevents creating style with a name sink already has. Sink
	// must implement sink.NameChecker for this to have any effect.
	SkipExisting bool
	// IsolateCategories continues with remaining categories when one fails.
	IsolateCategories bool
}

// Pipeline converts style sheet text into styles.
type Pipeline struct {
	log    *zap.Logger
	parser *css.Parser
	mapper *textstyle.Mapper
	sink   sink.Sink
	fonts  textstyle.FontLoader
	ui     UI
	opts   Options
}

func NewPipeline(s sink.Sink, fonts textstyle.FontLoader, ui UI, opts Options, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		log:    log.Named("pipeline"),
		parser: css.NewParser(log),
		mapper: textstyle.NewMapper(log),
		sink:   s,
		fonts:  fonts,
		ui:     ui,
		opts:   opts,
	}
}

// Run extracts blocks from text and creates paint styles for variables and
// text styles for categories. Both parts report to UI on their own, returned
// error combines their failures.
func (p *Pipeline) Run(ctx context.Context, text string) error {
	blocks := p.parser.Parse(text)
	p.log.Debug("Blocks extracted", zap.Int("variables", len(blocks.Variables)), zap.Int("categories", len(blocks.Categories)))

	varErr := p.ProcessColorVariables(blocks.Variables)
	return multierr.Append(varErr, p.ProcessCategories(ctx, blocks.Categories))
}

type paintStyle struct {
	name  string
	color paint.Color
}

// ProcessColorVariables creates paint style for every variable. All values
// are normalized before anything is created, so single bad value means no
// paint styles at all. Declarations which cannot be split into name and value
// are skipped.
func (p *Pipeline) ProcessColorVariables(vars []css.RawVariable) error {
	styles := make([]paintStyle, 0, len(vars))
	for _, v := range vars {
		name, value, ok := paint.SplitVariable(v)
		if !ok {
			p.log.Debug("Skipping variable", zap.String("declaration", string(v)))
			continue
		}
		color, err := paint.Normalize(value)
		if err != nil {
			return p.failVariables(fmt.Errorf("variable %s: %w", name, err))
		}
		styles = append(styles, paintStyle{name: paint.StyleName(name), color: color})
	}

	for _, s := range styles {
		if p.exists(sink.KindPaint, s.name) {
			continue
		}
		if err := p.sink.CreatePaintStyle(s.name, s.color); err != nil {
			return p.failVariables(err)
		}
		p.log.Debug("Paint style created", zap.String("name", s.name), zap.String("hex", s.color.Hex()))
	}

	p.ui.PostMessage(Notification{Type: NotificationSuccess, Message: msgVariablesDone})
	return nil
}

func (p *Pipeline) failVariables(err error) error {
	p.log.Debug("Variables batch failed", zap.Error(err))
	p.ui.PostMessage(Notification{Type: NotificationError, Message: msgVariablesFailed})
	return err
}

// ProcessCategories creates text style for every category in order. Failure
// handling depends on Options.IsolateCategories. Cancellation always stops
// processing.
func (p *Pipeline) ProcessCategories(ctx context.Context, cats []css.RawCategory) error {
	var errs error
	for _, raw := range cats {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		err := p.processCategory(ctx, raw)
		if err == nil {
			continue
		}
		errs = multierr.Append(errs, err)
		if !p.opts.IsolateCategories || ctx.Err() != nil {
			break
		}
	}

	if errs != nil {
		p.ui.PostMessage(Notification{
			Type:    NotificationError,
			Message: fmt.Sprintf("Failed to create text styles: %v", errs),
		})
		return errs
	}
	if len(cats) > 0 {
		p.ui.PostMessage(Notification{Type: NotificationSuccess, Message: msgTextsDone})
	}
	return nil
}

func (p *Pipeline) processCategory(ctx context.Context, raw css.RawCategory) error {
	d, err := p.mapper.MapCategory(raw)
	if err != nil {
		return err
	}
	if p.exists(sink.KindText, d.DisplayName()) {
		return nil
	}
	family, err := textstyle.ResolveFont(ctx, d, p.fonts, p.opts.FallbackFamily, p.log)
	if err != nil {
		return fmt.Errorf("text style %s: %w", d.DisplayName(), err)
	}
	if err := p.sink.CreateTextStyle(d, family); err != nil {
		return fmt.Errorf("text style %s: %w", d.DisplayName(), err)
	}
	p.log.Debug("Text style created", zap.String("name", d.DisplayName()), zap.String("family", family))
	return nil
}

func (p *Pipeline) exists(kind sink.Kind, name string) bool {
	if !p.opts.SkipExisting {
		return false
	}
	nc, ok := p.sink.(sink.NameChecker)
	if !ok || !nc.Exists(kind, name) {
		return false
	}
	p.log.Info("Style already exists, skipping", zap.Stringer("kind", kind), zap.String("name", name))
	return true
}
