package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/sdpower/ahelpstats/internal/types"
)

// ErrNotArray is returned by ParseMessages when the document is valid JSON
// but not a list of messages.
var ErrNotArray = fmt.Errorf("%w: top-level value is not an array", types.ErrInvalidFormat)

var serverNameRe = regexp.MustCompile(`ahelp-(.+?)\s*\[`)

// timestampLayouts are tried in order; layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

type Loader struct {
	maxWorkers int
	debug      bool
}

func New() *Loader {
	return &Loader{
		maxWorkers: 10,
		debug:      false,
	}
}

func (l *Loader) SetDebug(debug bool) {
	l.debug = debug
}

func (l *Loader) SetWorkers(n int) {
	if n > 0 {
		l.maxWorkers = n
	}
}

// LoadFromPath loads a single export file or every .json file below a
// directory. Files that map to the same server name are combined into one
// source. Sources are returned sorted by name.
func (l *Loader) LoadFromPath(ctx context.Context, path string) ([]types.Source, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("path does not exist")
		return nil, fmt.Errorf("path does not exist: %s: %w", path, types.ErrDataNotFound)
	}
	if err != nil {
		return nil, types.LoaderError{Path: path, Err: err}
	}

	var paths []string
	if info.IsDir() {
		paths, err = l.findJSONFiles(path)
		if err != nil {
			return nil, fmt.Errorf("failed to find JSON files: %w", err)
		}
	} else {
		paths = []string{path}
	}

	if l.debug {
		log.Debug().Str("path", path).Int("files", len(paths)).Msg("found export files")
		if len(paths) <= 5 {
			for _, p := range paths {
				log.Debug().Str("file", p).Msg("export file")
			}
		}
	}

	if len(paths) == 0 {
		return nil, types.ErrDataNotFound
	}

	sources, err := l.LoadParallel(ctx, paths)
	if err != nil {
		return nil, err
	}

	if l.debug {
		var messages int
		for _, s := range sources {
			messages += len(s.Messages)
		}
		log.Debug().Int("sources", len(sources)).Int("messages", messages).Msg("loaded sources")
	}

	return sources, nil
}

// LoadParallel reads paths with a bounded worker pool. A file that fails to
// load is logged and skipped; an error is returned only when nothing loaded.
// Messages already seen under the same server and message ID are dropped, so
// overlapping exports of one channel are counted once.
func (l *Loader) LoadParallel(ctx context.Context, paths []string) ([]types.Source, error) {
	type result struct {
		source types.Source
		err    error
	}

	jobs := make(chan string, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	workers := l.maxWorkers
	if workers > len(paths) {
		workers = len(paths)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					source, err := l.LoadFile(path)
					results <- result{source: source, err: err}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var loaded []types.Source
	var errs []error

	for res := range results {
		if res.err != nil {
			log.Warn().Err(res.err).Msg("skipping export file")
			errs = append(errs, res.err)
			continue
		}
		loaded = append(loaded, res.source)
	}

	if len(loaded) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load any files: %w", errs[0])
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return combineSources(loaded), nil
}

// LoadFile reads one export file. A valid document that is not a message
// list yields a source with no messages.
func (l *Loader) LoadFile(path string) (types.Source, error) {
	source := types.Source{Name: ServerName(path), Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return source, types.LoaderError{Path: path, Err: err}
	}

	messages, err := ParseMessages(data)
	switch {
	case errors.Is(err, ErrNotArray):
		log.Warn().Str("path", path).Msg("export is not a message list, treating as empty")
		return source, nil
	case err != nil:
		return source, types.LoaderError{Path: path, Err: err}
	}

	source.Messages = messages
	if l.debug {
		log.Debug().Str("path", path).Str("source", source.Name).Int("messages", len(messages)).Msg("loaded file")
	}
	return source, nil
}

// ParseMessages decodes an export document. Array items that are not
// objects are ignored, as are fields other than id, created_at and
// embeds[].description.
func ParseMessages(data []byte) ([]types.Message, error) {
	if !gjson.ValidBytes(data) {
		return nil, types.ErrInvalidFormat
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, ErrNotArray
	}

	var messages []types.Message
	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}

		msg := types.Message{
			ID:        item.Get("id").String(),
			CreatedAt: item.Get("created_at").String(),
		}
		if ts, ok := ParseTimestamp(msg.CreatedAt); ok {
			msg.Timestamp = ts
		}

		if embeds := item.Get("embeds"); embeds.IsArray() {
			embeds.ForEach(func(_, e gjson.Result) bool {
				msg.Embeds = append(msg.Embeds, types.Embed{Description: e.Get("description").String()})
				return true
			})
		}

		messages = append(messages, msg)
		return true
	})

	return messages, nil
}

// ParseTimestamp reads an ISO-8601 timestamp and returns it in UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ServerName derives the server from an export file name such as
// "ahelp-main [123].json". Other names fall back to the base name without
// extension.
func ServerName(path string) string {
	base := filepath.Base(path)
	if m := serverNameRe.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (l *Loader) findJSONFiles(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)
	return files, err
}

// combineSources merges sources that share a server name, keeping file
// order stable by path, and drops repeated message IDs within a server.
func combineSources(loaded []types.Source) []types.Source {
	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Path < loaded[j].Path
	})

	byName := make(map[string]*types.Source)
	seen := make(map[string]map[string]bool)
	var names []string

	for _, src := range loaded {
		combined, ok := byName[src.Name]
		if !ok {
			combined = &types.Source{Name: src.Name, Path: src.Path}
			byName[src.Name] = combined
			seen[src.Name] = make(map[string]bool)
			names = append(names, src.Name)
		}

		for _, msg := range src.Messages {
			if msg.ID != "" {
				if seen[src.Name][msg.ID] {
					continue
				}
				seen[src.Name][msg.ID] = true
			}
			combined.Messages = append(combined.Messages, msg)
		}
	}

	sort.Strings(names)
	sources := make([]types.Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, *byName[name])
	}
	return sources
}
