package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssfig/config"
	"cssfig/fonts"
	"cssfig/sink"
	"cssfig/state"
)

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

func listFonts(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)

	catalog, err := fonts.NewCatalog(&env.Cfg.Styles.Fonts, env.Log)
	if err != nil {
		return fmt.Errorf("unable to prepare font catalog: %w", err)
	}
	return writeFonts(os.Stdout, catalog)
}

func writeFonts(w io.Writer, catalog *fonts.Catalog) error {
	for _, family := range catalog.Families() {
		styles, _ := catalog.Styles(family)
		line := family
		if len(styles) == 0 {
			line += "\t*"
		} else {
			line += "\t" + strings.Join(styles, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func listLibrary(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	path := cmd.Args().Get(0)
	if len(path) == 0 {
		path = env.Cfg.Output.Library
	}
	if len(path) == 0 {
		return errors.New("no style library has been specified")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("unable to access style library: %w", err)
	}

	lib, err := sink.OpenLibrary(path)
	if err != nil {
		return err
	}
	defer lib.Close()

	return writeLibrary(os.Stdout, lib)
}

func writeLibrary(w io.Writer, lib *sink.Library) error {
	for _, kind := range []sink.Kind{sink.KindPaint, sink.KindText} {
		names, err := lib.Names(kind)
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", kind, name); err != nil {
				return err
			}
		}
	}
	return nil
}
