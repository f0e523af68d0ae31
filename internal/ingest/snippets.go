package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/candidate"
	"github.com/blackwell-systems/autoscout/internal/logging"
)

// SnippetOptions controls directory discovery.
type SnippetOptions struct {
	// Extensions lists the file extensions to load, lowercase with a leading
	// dot. Empty means every regular file.
	Extensions []string
	// CategoryMap maps a lowercased top-level directory name to a category.
	// Unmapped directories use their own name.
	CategoryMap map[string]string
}

// LoadCandidates reads candidates from a snippet directory or, when path is
// a file, from a flat JSON array.
func LoadCandidates(path string, opts SnippetOptions, logger *zap.Logger) ([]candidate.Source, Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Report{Source: path}, fmt.Errorf("reading candidates: %w", err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, Report{Source: path}, fmt.Errorf("reading candidates: %w", err)
		}
		return ParseCandidates(data, path, logger)
	}
	return DiscoverSnippets(path, opts, logger)
}

// ParseCandidates decodes a flat JSON array of candidates.
func ParseCandidates(data []byte, source string, logger *zap.Logger) ([]candidate.Source, Report, error) {
	logger = logging.OrNop(logger)
	report := Report{Source: source, Format: FormatFlat}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, report, fmt.Errorf("decoding %s: %w", source, ErrUnknownFormat)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, report, fmt.Errorf("decoding %s: %w", source, err)
	}

	out := make([]candidate.Source, 0, len(raw))
	report.Total = len(raw)
	for i, r := range raw {
		rec, err := decodeRecord(r, i, &report, logger)
		if err != nil {
			report.skip(logger, i, "", err)
			continue
		}
		filename, err := rec.identity("filename", ErrMissingFilename)
		if err != nil {
			report.skip(logger, i, rec.str("path"), err)
			continue
		}
		out = append(out, candidate.Source{
			Filename: filename,
			Content:  rec.str("content"),
			Category: rec.str("category"),
			Path:     rec.str("path"),
		})
	}
	report.Loaded = len(out)
	return out, report, nil
}

// DiscoverSnippets walks root recursively in lexical order and loads every
// file with a configured extension. Hidden files and directories are
// skipped. A file that cannot be read is reported and skipped.
func DiscoverSnippets(root string, opts SnippetOptions, logger *zap.Logger) ([]candidate.Source, Report, error) {
	logger = logging.OrNop(logger)
	report := Report{Source: root, Format: FormatDirectory}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	var out []candidate.Source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			report.Total++
			report.skip(logger, -1, path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		report.Total++
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			report.skip(logger, -1, rel, readErr)
			return nil
		}
		out = append(out, candidate.Source{
			Filename: d.Name(),
			Content:  string(content),
			Category: categoryFor(root, rel, opts.CategoryMap),
			Path:     rel,
		})
		return nil
	})
	if err != nil {
		return nil, report, fmt.Errorf("walking %s: %w", root, err)
	}
	report.Loaded = len(out)
	return out, report, nil
}

// categoryFor derives a snippet's category from the first path segment
// below root. Files directly under root take root's own name.
func categoryFor(root, rel string, mapping map[string]string) string {
	dir := filepath.Base(filepath.Clean(root))
	if i := strings.IndexByte(rel, '/'); i > 0 {
		dir = rel[:i]
	}
	if cat, ok := mapping[strings.ToLower(dir)]; ok && cat != "" {
		return cat
	}
	return dir
}
