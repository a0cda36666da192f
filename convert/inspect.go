package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"

	"cssfig/css"
	"cssfig/fonts"
	"cssfig/paint"
	"cssfig/state"
	"cssfig/textstyle"
	"cssfig/utils/debug"
)

// Inspect returns readable tree of everything pipeline would create from the
// text without touching the sink. It exists for manual inspection of style
// sheets which do not convert as expected.
func (p *Pipeline) Inspect(ctx context.Context, text string) string {
	blocks := p.parser.Parse(text)
	tw := debug.NewTreeWriter()

	tw.Line(0, "Variables: %d", len(blocks.Variables))
	for i, v := range blocks.Variables {
		inspectVariable(tw, i, v)
	}

	tw.Line(0, "Categories: %d", len(blocks.Categories))
	for i, raw := range blocks.Categories {
		p.inspectCategory(ctx, tw, i, raw)
	}
	return tw.String()
}

func inspectVariable(tw *debug.TreeWriter, i int, v css.RawVariable) {
	tw.Line(1, "Variable[%d]", i)
	tw.Text(2, "raw", string(v))
	name, value, ok := paint.SplitVariable(v)
	if !ok {
		tw.Line(2, "skipped: malformed declaration")
		return
	}
	tw.Text(2, "name", paint.StyleName(name))
	color, err := paint.Normalize(value)
	if err != nil {
		tw.Line(2, "error: %v", err)
		return
	}
	tw.Field(2, "hex", color.Hex())
	tw.Field(2, "opacity", color.Opacity)
}

func (p *Pipeline) inspectCategory(ctx context.Context, tw *debug.TreeWriter, i int, raw css.RawCategory) {
	tw.Line(1, "Category[%d]", i)
	tw.Text(2, "raw", string(raw))
	d, err := p.mapper.MapCategory(raw)
	if err != nil {
		tw.Line(2, "error: %v", err)
		return
	}
	tw.Text(2, "name", d.DisplayName())
	tw.Field(2, "font-family", d.FontFamily)
	tw.Field(2, "font-style", d.Weight())
	tw.Field(2, "font-size", d.FontSizePt)
	if d.LineHeight != nil {
		tw.Line(2, "line-height: %s %v", d.LineHeight.Mode, d.LineHeight.Value)
	} else {
		tw.Field(2, "line-height", nil)
	}
	tw.Field(2, "letter-spacing", d.LetterSpacingPercent)

	family, err := textstyle.ResolveFont(ctx, d, p.fonts, p.opts.FallbackFamily, nil)
	if err != nil {
		tw.Line(2, "resolved: error: %v", err)
		return
	}
	tw.Text(2, "resolved", family)
}

// InspectFile prints inspection tree for a single style sheet.
func InspectFile(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}

	setCodePage(env, cmd.String("input-cp"), log)

	var r io.Reader
	if src == "-" {
		r = selectReader(os.Stdin, encUnknown)
	} else {
		style, enc, err := isStyleFile(src)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if !style {
			return fmt.Errorf("input was not recognized as style sheet (%s)", src)
		}
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()
		r = selectReader(f, enc)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read style sheet: %w", err)
	}
	if data, err = env.Decode(data); err != nil {
		return fmt.Errorf("unable to decode style sheet: %w", err)
	}

	catalog, err := fonts.NewCatalog(&env.Cfg.Styles.Fonts, log)
	if err != nil {
		return fmt.Errorf("unable to prepare font catalog: %w", err)
	}
	p := NewPipeline(nil, catalog, nil, Options{FallbackFamily: env.Cfg.Styles.DefaultFontFamily}, log)

	_, err = fmt.Fprintf(os.Stdout, "%s\n%s", filepath.Base(src), p.Inspect(ctx, string(data)))
	return err
}
