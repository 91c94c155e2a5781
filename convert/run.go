// Package convert implements program commands working with html documents.
package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"h2d/archive"
	"h2d/common"
	"h2d/compiler"
	"h2d/preview"
	"h2d/state"
)

// Compile is the action of compile command: converts html file, every html
// file in zip archive or under directory to design tree documents.
func Compile(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
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

	env.Format, err = common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to json", zap.Error(err))
		env.Format = common.OutputFmtJson
	}
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the core compile logic independently of CLI framework. It
// determines the input type (directory, archive or single file) and processes
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	if fi.IsDir() {
		if err := processDir(ctx, src, dst, log); err != nil {
			return fmt.Errorf("unable to process directory: %w", err)
		}
		return nil
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	zipped, err := isArchiveFile(src)
	if err != nil {
		return fmt.Errorf("unable to check archive type: %w", err)
	}
	if zipped {
		if err := processArchive(ctx, src, "", dst, log); err != nil {
			return fmt.Errorf("unable to process archive: %w", err)
		}
		return nil
	}
	return processFile(ctx, src, filepath.Base(src), dst, log)
}

// processDir finds html files and zip archives under directory and processes
// them in natural order, so "page2.html" goes before "page10.html". Failed
// documents are logged and skipped.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !isHTMLName(path) && !strings.EqualFold(filepath.Ext(path), ".zip") {
			log.Debug("Skipping file, not html or archive", zap.String("file", path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}
	sort.Sort(natural.StringSlice(files))

	var failed int
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		zipped, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if zipped {
			if err := processArchive(ctx, path, filepath.Dir(src), dst, log); err != nil {
				failed++
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}
		if !isHTMLName(path) {
			log.Debug("Skipping file, not a zip archive", zap.String("file", path))
			continue
		}
		if err := processFile(ctx, path, src, dst, log); err != nil {
			failed++
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	log.Debug("Directory processed", zap.String("dir", dir), zap.Int("sources", len(files)), zap.Int("failed", failed))
	return nil
}

// processArchive compiles every html file in zip archive. "pathOut" is the
// directory archive content is placed under relative to destination.
func processArchive(ctx context.Context, path, pathOut, dst string, log *zap.Logger) error {
	count := 0
	err := archive.Walk(path, isHTMLName, func(archive string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", archive), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		if err := processDocument(ctx, r, filepath.Join(pathOut, filepath.FromSlash(f.Name)), dst, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", archive), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
	}
	return err
}

func processFile(ctx context.Context, path, src, dst string, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return processDocument(ctx, file, src, dst, log)
}

// processDocument compiles single html document. "src" is part of the source
// path (always including file name) relative to the original path. When
// actual file was specified it will be just base file name without a path.
// When looking inside archive or directory it will be relative path inside
// archive or directory. "dst" is the destination directory where design tree
// should be written.
func processDocument(ctx context.Context, r io.Reader, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Compilation starting", zap.String("from", src))
	defer func(start time.Time) {
		// one bad document should not stop processing of the whole directory
		if r := recover(); r != nil {
			log.Error("Compilation ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("compilation panic: %v", r)
		} else if rerr == nil {
			log.Info("Compilation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	res, err := compileSource(ctx, r, src, log)
	if err != nil {
		return err
	}

	ext := env.Format.Ext()
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	outputName = buildOutputPath(src, dst, ext, Values{
		Name:     stem,
		Dir:      filepath.ToSlash(filepath.Dir(src)),
		Format:   env.Format.String(),
		Root:     res.Root.Name,
		Elements: res.Elements,
		Rules:    res.Rules,
	}, env)

	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	if err := res.Write(out, env.Format); err != nil {
		out.Close()
		return fmt.Errorf("unable to write design tree: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("unable to write design tree: %w", err)
	}

	// Store compilation result for debugging
	env.Rpt.Store(fmt.Sprintf("result/%s%s", strings.TrimSuffix(filepath.ToSlash(src), filepath.Ext(src)), ext), outputName)
	return nil
}

// compileSource reads and compiles html document, warnings go to the log.
func compileSource(ctx context.Context, r io.Reader, src string, log *zap.Logger) (*compiler.Result, error) {
	env := state.EnvFromContext(ctx)

	text, enc, err := readDocument(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read html source (%s): %w", src, err)
	}
	log.Debug("Source loaded", zap.String("file", src), zap.String("encoding", enc), zap.Int("size", len(text)))
	env.Rpt.StoreData(fmt.Sprintf("input/%s", filepath.ToSlash(src)), []byte(text))

	res, err := compiler.New(&env.Cfg.Compiler, log).Compile(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("unable to compile html source (%s): %w", src, err)
	}
	for _, w := range res.Warnings {
		log.Warn("Compilation problem", zap.String("file", src), zap.String("warning", w))
	}
	log.Debug("Design tree ready", zap.String("file", src),
		zap.Int("elements", res.Elements), zap.Int("rules", res.Rules), zap.Int("nodes", res.Root.Count()))
	return res, nil
}

// prepareOutput checks if output file already exists and creates output
// directory when necessary.
func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// Preview is the action of preview command: draws design tree of a single
// html file as an image. Destination with ".svg" extension gets vector
// drawing, anything else is rasterized.
func Preview(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".png"
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Preview starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Preview completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return renderPreview(ctx, src, dst, log)
}

func renderPreview(ctx context.Context, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := compileSource(ctx, file, filepath.Base(src), log)
	if err != nil {
		return err
	}
	if err := prepareOutput(dst, env.Overwrite, log); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(dst), ".svg") {
		if err := os.WriteFile(dst, preview.SVG(res.Root, env.Cfg.Preview.Margin), 0644); err != nil {
			return fmt.Errorf("unable to save preview: %w", err)
		}
	} else {
		img, err := preview.NewRenderer(&env.Cfg.Preview, env.Log).Render(res.Root)
		if err != nil {
			return err
		}
		if err := preview.Save(img, dst); err != nil {
			return err
		}
	}
	env.Rpt.Store("preview"+filepath.Ext(dst), dst)
	return nil
}
