package scan

import (
	"log/slog"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/lorekeep/lorekeep/core"
	"github.com/lorekeep/lorekeep/media"
)

// refAlternation matches a reference under any recognized protocol
// prefix, built from the same constant the rest of the system parses
// references with.
var refAlternation = func() string {
	quoted := make([]string, len(media.RecognizedProtocols))
	for i, proto := range media.RecognizedProtocols {
		quoted[i] = regexp.QuoteMeta(proto)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}()

// Embed syntaxes recognized inside file content. Each pattern captures
// the full prefixed reference in group 1.
var refPatterns = []*regexp.Regexp{
	// Markdown image: ![alt](local-media://id)
	regexp.MustCompile(`!\[[^\]]*\]\((` + refAlternation + `[^)\s]+)\)`),
	// Markdown audio: !audio[alt](local-media://id)
	regexp.MustCompile(`!audio\[[^\]]*\]\((` + refAlternation + `[^)\s]+)\)`),
	// Markdown video: !video[alt](local-media://id)
	regexp.MustCompile(`!video\[[^\]]*\]\((` + refAlternation + `[^)\s]+)\)`),
	// HTML audio/source tags: <audio src="..."> / <source src="...">
	regexp.MustCompile(`(?i)<(?:audio|source)[^>]*\bsrc="(` + refAlternation + `[^"]+)"`),
	// HTML video tag: <video src="...">
	regexp.MustCompile(`(?i)<video[^>]*\bsrc="(` + refAlternation + `[^"]+)"`),
}

// ExtractRefs returns the bare media identifiers referenced by one
// document's content, in order of first appearance, without duplicates.
// Whichever protocol prefix a reference uses, the identifier comes back
// stripped, so both generations land in one namespace.
func ExtractRefs(content string) []string {
	if content == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, pattern := range refPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			id := media.StripRef(match[1])
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Scanner computes the used-identifier set across a document collection,
// scanning documents concurrently.
type Scanner struct {
	poolSize int
	logger   *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithPoolSize sets the worker pool size for concurrent scanning.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) ScannerOption {
	return func(s *Scanner) {
		if size < 1 {
			size = 1
		}
		s.poolSize = size
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		poolSize: runtime.NumCPU(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UsedIdentifiers scans every file node's content and returns the set of
// bare identifiers referenced anywhere. Folder nodes carry no content
// and are skipped.
func (s *Scanner) UsedIdentifiers(docs []core.DocumentNode) (map[string]struct{}, error) {
	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	used := make(map[string]struct{})
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i := range docs {
		doc := &docs[i]
		if doc.Type != core.NodeTypeFile || doc.Content == "" {
			continue
		}

		wg.Add(1)
		content := doc.Content
		if err := pool.Submit(func() {
			defer wg.Done()
			ids := ExtractRefs(content)
			if len(ids) == 0 {
				return
			}
			mu.Lock()
			for _, id := range ids {
				used[id] = struct{}{}
			}
			mu.Unlock()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()
	return used, nil
}

// ComputeUnused returns the identifiers in all that appear in no
// document, rendered under the current protocol prefix regardless of how
// they were stored or referenced. The result is sorted for determinism.
func ComputeUnused(all []string, used map[string]struct{}) []string {
	unused := []string{}
	for _, id := range all {
		bare := media.StripRef(id)
		if _, ok := used[bare]; ok {
			continue
		}
		unused = append(unused, media.CanonicalRef(bare))
	}
	sort.Strings(unused)
	return unused
}
