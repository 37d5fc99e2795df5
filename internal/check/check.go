// Package check parses sets of template files in parallel and reports their syntax errors.
package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/edgecst/edgecst/internal/ast"
	"github.com/edgecst/edgecst/internal/config"
	"github.com/edgecst/edgecst/internal/logs"
	"github.com/edgecst/edgecst/internal/parse"
	"github.com/edgecst/edgecst/internal/rawlint"
	"github.com/edgecst/edgecst/internal/sourcecode"
	"github.com/maruel/natural"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const LOG_SRC = "check"

var (
	ErrNoMatchingFiles = errors.New("no template matches the include patterns")
)

// A FileResult is the outcome of checking a single file. Err is either a *parse.LocatedParsingError
// or an I/O error.
type FileResult struct {
	Path     string
	Source   sourcecode.Source //empty if the file could not be read
	Document *ast.Document     //nil if the file could not be parsed
	Err      error
	Lint     []rawlint.Diagnostic
	Cached   bool
	Duration time.Duration
}

func (r FileResult) SyntaxError() (*parse.LocatedParsingError, bool) {
	var err *parse.LocatedParsingError
	if errors.As(r.Err, &err) {
		return err, true
	}
	return nil, false
}

type RunnerOptions struct {
	Config *config.Config
	Logger zerolog.Logger

	//maximum number of files parsed at the same time, defaults to GOMAXPROCS.
	Concurrency int

	//shared by successive runs, a new cache is created if nil.
	Cache *parse.DocumentCache
}

// A Runner checks the templates of a filesystem, it can be used by several goroutines.
type Runner struct {
	fsys        fs.FS
	config      *config.Config
	logger      zerolog.Logger
	concurrency int
	cache       *parse.DocumentCache
}

func NewRunner(fsys fs.FS, opts RunnerOptions) *Runner {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	cache := opts.Cache
	if cache == nil {
		cache = parse.NewDocumentCache(cfg.CacheSize)
	}

	return &Runner{
		fsys:        fsys,
		config:      cfg,
		logger:      logs.ChildLoggerForSource(opts.Logger, LOG_SRC),
		concurrency: concurrency,
		cache:       cache,
	}
}

func (r *Runner) Cache() *parse.DocumentCache {
	return r.cache
}

// Discover returns the paths matching at least one of the patterns and none of the exclude
// patterns of the configuration, sorted in natural order. The include patterns of the
// configuration are used if patterns is empty.
func (r *Runner) Discover(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = r.config.Include
	}

	seen := map[string]struct{}{}
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(r.fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if _, ok := seen[match]; ok || r.IsExcluded(match) {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}

	sort.Sort(natural.StringSlice(paths))
	return paths, nil
}

func (r *Runner) IsExcluded(path string) bool {
	for _, pattern := range r.config.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// IsIncluded reports whether path matches an include pattern and no exclude pattern.
func (r *Runner) IsIncluded(path string) bool {
	if r.IsExcluded(path) {
		return false
	}
	for _, pattern := range r.config.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Run discovers the files matching patterns and checks them.
func (r *Runner) Run(ctx context.Context, patterns []string) (*Report, error) {
	paths, err := r.Discover(patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoMatchingFiles
	}
	return r.CheckFiles(ctx, paths)
}

// CheckFiles checks the files in parallel, the results are in the same order as paths.
// The returned error is only non-nil if ctx is done.
func (r *Runner) CheckFiles(ctx context.Context, paths []string) (*Report, error) {
	results := make([]FileResult, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = r.CheckFile(groupCtx, path)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Files: results}
	r.logger.Debug().
		Int("files", len(results)).
		Int("syntaxErrors", report.SyntaxErrorCount()).
		Msg("check done")

	return report, nil
}

// CheckFile reads and parses a single file, the raw blocks are linted if enabled in the configuration.
func (r *Runner) CheckFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}
	start := time.Now()

	content, err := fs.ReadFile(r.fsys, path)
	if err != nil {
		r.logger.Error().Err(err).Str("file", path).Msg("failed to read template")
		result.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return result
	}

	src := sourcecode.Source{Name: path, Code: string(content)}
	result.Source = src

	doc, cached, err := r.cache.Parse(src.Code, r.config.ParserOptions(ctx))
	result.Duration = time.Since(start)
	result.Cached = cached

	if err != nil {
		var parsingErr *parse.ParsingError
		if errors.As(err, &parsingErr) {
			located := parsingErr.Locate(src)
			r.logger.Warn().Str("file", path).Str("error", located.Error()).Msg("syntax error")
			result.Err = located
		} else {
			result.Err = err
		}
		return result
	}

	result.Document = doc
	if r.config.LintRawBlocks {
		result.Lint = rawlint.Check(doc)
	}

	r.logger.Debug().
		Str("file", path).
		Bool("cached", cached).
		Dur("duration", result.Duration).
		Int("nodes", ast.CountNodes(doc)).
		Msg("parsed")

	return result
}
