// Package convert drives conversion of style sheets into styles: it finds
// sources, runs them through the pipeline and writes results.
package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssfig/archive"
	"cssfig/common"
	"cssfig/fonts"
	"cssfig/sink"
	"cssfig/state"
)

// stdinName is used as source name when style sheet is read from standard
// input.
const stdinName = "stdin.css"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src != "-" {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format = env.Cfg.Output.Format
	if to := cmd.String("to"); len(to) > 0 {
		if env.Format, err = common.ParseOutputFmt(to); err != nil {
			log.Warn("Unknown output format requested, switching to yaml", zap.Error(err))
			env.Format = common.OutputFmtYaml
		}
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	env.Library = env.Cfg.Output.Library
	if lib := cmd.String("library"); len(lib) > 0 {
		env.Library = lib
	}

	setCodePage(env, cmd.String("input-cp"), log)

	c, err := newConverter(env, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.Close())
	}()

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if src == "-" {
		return c.processStyleSheet(ctx, selectReader(os.Stdin, encUnknown), stdinName, dst)
	}
	return c.process(ctx, src, dst)
}

// setCodePage selects code page for style sheets without byte order mark.
// Unknown names are logged and ignored.
func setCodePage(env *state.LocalEnv, cp string, log *zap.Logger) {
	if len(cp) == 0 {
		return
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		env.CodePage = nil
		return
	}
	env.CodePage = enc
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Reading style sheets in specified code page", zap.String("charset", n))
}

// converter keeps resources shared by all style sheets processed in a single
// run.
type converter struct {
	env     *state.LocalEnv
	log     *zap.Logger
	fonts   *fonts.Catalog
	library *sink.Library
}

func newConverter(env *state.LocalEnv, log *zap.Logger) (*converter, error) {
	catalog, err := fonts.NewCatalog(&env.Cfg.Styles.Fonts, log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare font catalog: %w", err)
	}
	log.Debug("Font catalog ready", zap.Strings("families", catalog.Families()))

	c := &converter{env: env, log: log, fonts: catalog}
	if len(env.Library) > 0 {
		if c.library, err = sink.OpenLibrary(env.Library); err != nil {
			return nil, err
		}
		log.Debug("Style library opened", zap.String("path", env.Library))
	}
	return c, nil
}

func (c *converter) Close() error {
	if c.library == nil {
		return nil
	}
	c.env.Rpt.Store("library.db", c.library.Path())
	return c.library.Close()
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly.
func (c *converter) process(ctx context.Context, src, dst string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := c.processDir(ctx, head, dst); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := c.processArchive(ctx, head, filepath.ToSlash(tail), "", dst); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		style, enc, err := isStyleFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if style && len(tail) == 0 {
			file, err := os.Open(head)
			if err != nil {
				return fmt.Errorf("unable to process file: %w", err)
			}
			defer file.Close()
			c.env.Rpt.Store("source/"+filepath.Base(head), head)
			return c.processStyleSheet(ctx, selectReader(file, enc), filepath.Base(head), dst)
		}
		return fmt.Errorf("input was not recognized as style sheet (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding style sheets and archives and
// processes them. Failures of individual files are logged.
func (c *converter) processDir(ctx context.Context, dir, dst string) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			c.log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			c.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			c.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := c.processArchive(ctx, path, "", filepath.Dir(rel), dst); err != nil {
				c.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		style, enc, err := isStyleFile(path)
		if err != nil {
			c.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !style {
			c.log.Debug("Skipping file, not recognized as style sheet or archive", zap.String("file", path))
			return nil
		}

		count++

		file, err := os.Open(path)
		if err != nil {
			c.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			return nil
		}
		defer file.Close()

		c.env.Rpt.Store("source/"+filepath.ToSlash(rel), path)
		if err := c.processStyleSheet(ctx, selectReader(file, enc), rel, dst); err != nil {
			c.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
}

// processArchive walks all files inside archive, finds style sheets under
// "pathIn" and processes them.
func (c *converter) processArchive(ctx context.Context, path, pathIn, pathOut, dst string) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			c.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	match := func(name string) bool {
		return strings.HasPrefix(name, pathIn) && archive.HasExt(name, ".css")
	}
	return archive.Walk(path, match, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		style, enc, err := isStyleInArchive(f)
		if err != nil {
			c.log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !style {
			c.log.Debug("Skipping file, not recognized as style sheet", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}

		count++

		data, err := archive.ReadFile(f)
		if err != nil {
			c.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}

		pathInArchive := f.Name
		if cp := c.env.CodePage; cp != nil && f.NonUTF8 {
			// file name in archive is in the same code page
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				c.log.Warn("Unable to convert archive name from specified encoding", zap.String("path", pathInArchive), zap.Error(err))
			}
		}

		name := filepath.Join(pathOut, filepath.FromSlash(pathInArchive))
		c.env.Rpt.StoreData("source/"+filepath.ToSlash(name), data)
		if err := c.processStyleSheet(ctx, selectReader(bytes.NewReader(data), enc), name, dst); err != nil {
			c.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
}

// processStyleSheet converts single style sheet. "src" is part of the source
// path (always including file name) relative to the original path. "dst" is
// the destination directory where the result should be written.
func (c *converter) processStyleSheet(ctx context.Context, r io.Reader, src, dst string) (rerr error) {
	env := c.env
	log := c.log

	var outputName string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read style sheet (%s): %w", src, err)
	}
	if data, err = env.Decode(data); err != nil {
		return fmt.Errorf("unable to decode style sheet (%s): %w", src, err)
	}

	mem := sink.NewMemory()
	sinks := sink.Tee{mem}
	if c.library != nil {
		sinks = append(sinks, c.library)
	}

	ui := NewLogUI(log)
	opts := Options{
		FallbackFamily:    env.Cfg.Styles.DefaultFontFamily,
		SkipExisting:      env.Cfg.Styles.SkipExisting,
		IsolateCategories: env.Cfg.Styles.IsolateCategories,
	}
	session := NewSession(NewPipeline(sinks, c.fonts, ui, opts, log), ui, log)
	runErr := session.OnMessage(ctx, Message{Type: MessageCheckCSSText, Text: string(data)})

	if mem.Empty() {
		log.Warn("No styles were produced", zap.String("from", src))
		return runErr
	}

	doc := sink.NewDocument(filepath.ToSlash(src), mem)
	outputName = buildOutputPath(doc, src, dst, env)
	if err := writeDocument(doc, outputName, env); err != nil {
		return multierr.Append(runErr, err)
	}
	env.Rpt.Store("result/"+filepath.ToSlash(filepath.Join(filepath.Dir(src), filepath.Base(outputName))), outputName)
	return runErr
}

func writeDocument(doc *sink.Document, outputName string, env *state.LocalEnv) (err error) {
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		env.Log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return doc.Write(f, env.Format)
}
