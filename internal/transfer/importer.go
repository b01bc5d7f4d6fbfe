// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/academy/internal/kvstore"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
	"github.com/olegiv/academy/internal/videourl"
)

// MaxImportBytes bounds the size of an import document.
const MaxImportBytes int64 = 64 << 20

// ErrNotArray is returned for a collection value that is not a JSON array.
var ErrNotArray = errors.New("collection value is not a JSON array")

// Importer merges snapshots and localStorage dumps into the store.
type Importer struct {
	store  kvstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewImporter creates a new Importer instance.
func NewImporter(store kvstore.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, logger: logger, now: time.Now}
}

// Parse decodes either an export snapshot or a browser localStorage dump,
// an object of key to value where each value is an array or a JSON string
// holding one.
func Parse(r io.Reader) (*ExportData, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	if int64(len(body)) > MaxImportBytes {
		return nil, fmt.Errorf("import exceeds %d bytes", MaxImportBytes)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("parsing import: %w", err)
	}

	if _, ok := top["collections"]; ok {
		var data ExportData
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("parsing snapshot: %w", err)
		}
		if data.Collections == nil {
			data.Collections = map[string]json.RawMessage{}
		}
		return &data, nil
	}

	return &ExportData{Version: dumpVersion, Collections: top}, nil
}

// ImportFromReader parses r and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	data, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, data, opts)
}

// ImportFromFile imports the document at path.
func (i *Importer) ImportFromFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return i.ImportFromReader(ctx, f, opts)
}

// Import writes the known collections of data into the store. Unknown keys
// are ignored. A collection that cannot be decoded is reported in the
// result and does not stop the others; store failures abort the import.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	if data == nil {
		return nil, errors.New("no data to import")
	}

	result := newImportResult(opts.DryRun)

	keys := make([]string, 0, len(data.Collections))
	for key := range data.Collections {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !slices.Contains(Collections, key) {
			result.Ignored = append(result.Ignored, key)
			continue
		}

		value, err := normalizeValue(data.Collections[key])
		if err != nil {
			result.addError(key, err)
			continue
		}

		if err := i.importCollection(ctx, key, value, opts, result); err != nil {
			var decodeErr *decodeError
			if errors.As(err, &decodeErr) {
				result.addError(key, err)
				continue
			}
			return result, err
		}
	}

	i.logger.InfoContext(ctx, "import completed",
		"category", model.EventCategoryStore,
		"format", data.Version,
		"imported", result.TotalImported(),
		"errors", len(result.Errors),
		"replace", opts.Replace,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func (i *Importer) importCollection(ctx context.Context, key string, value []byte, opts ImportOptions, result *ImportResult) error {
	switch key {
	case model.KeyUsers:
		users, err := decodeList[model.User](value)
		if err != nil {
			return err
		}
		for k := range users {
			users[k].Username = strings.TrimSpace(users[k].Username)
		}
		return importList(ctx, i, key, users, opts, result, mergeSpec[model.User]{
			key: func(u *model.User) string { return u.Username },
		})

	case model.KeyPosts:
		posts, err := decodePosts(value, i.now().UTC())
		if err != nil {
			return err
		}
		return importList(ctx, i, key, posts, opts, result,
			idSpec(func(p *model.Post) *int64 { return &p.ID }, assignPostSlugs))

	case model.KeyBooks:
		return decodeAndImport(ctx, i, key, value, opts, result,
			idSpec(func(b *model.Book) *int64 { return &b.ID }, nil))

	case model.KeyManuscripts:
		return decodeAndImport(ctx, i, key, value, opts, result,
			idSpec(func(m *model.Manuscript) *int64 { return &m.ID }, nil))

	case model.KeyLessons:
		return decodeAndImport(ctx, i, key, value, opts, result,
			idSpec(func(l *model.Lesson) *int64 { return &l.ID }, deriveLessonURLs))

	case model.KeyEvents:
		return decodeAndImport(ctx, i, key, value, opts, result,
			idSpec(func(e *model.Event) *int64 { return &e.ID }, nil))
	}
	return nil
}

// mergeSpec describes how the records of one collection are merged.
type mergeSpec[T any] struct {
	key    func(*T) string // Identity used for de-duplication; "" skips the record
	id     func(*T) *int64 // Numeric id assigned when missing; nil for users
	finish func([]T)       // Fixups applied to the merged collection
}

func idSpec[T any](id func(*T) *int64, finish func([]T)) mergeSpec[T] {
	return mergeSpec[T]{
		key: func(r *T) string {
			if v := *id(r); v != 0 {
				return strconv.FormatInt(v, 10)
			}
			return ""
		},
		id:     id,
		finish: finish,
	}
}

func decodeAndImport[T any](ctx context.Context, i *Importer, key string, value []byte, opts ImportOptions, result *ImportResult, spec mergeSpec[T]) error {
	items, err := decodeList[T](value)
	if err != nil {
		return err
	}
	return importList(ctx, i, key, items, opts, result, spec)
}

// importList merges incoming into the stored collection. Records whose
// identity is already present are skipped, so stored data wins.
func importList[T any](ctx context.Context, i *Importer, key string, incoming []T, opts ImportOptions, result *ImportResult, spec mergeSpec[T]) error {
	coll := repository.NewCollection[T](i.store, key, i.logger)

	merged := []T{}
	if !opts.Replace {
		existing, err := coll.Load(ctx)
		if err != nil {
			return err
		}
		merged = existing
	}

	if spec.id != nil {
		assignMissingIDs(merged, incoming, spec.id)
	}

	seen := make(map[string]bool, len(merged)+len(incoming))
	for k := range merged {
		seen[spec.key(&merged[k])] = true
	}

	for k := range incoming {
		rec := &incoming[k]
		ident := spec.key(rec)
		if ident == "" || seen[ident] {
			result.Skipped[key]++
			continue
		}
		seen[ident] = true
		merged = append(merged, *rec)
		result.Imported[key]++
	}

	if spec.finish != nil {
		spec.finish(merged)
	}
	if opts.DryRun {
		return nil
	}
	return coll.Save(ctx, merged)
}

// assignMissingIDs gives incoming records without an id one above every
// id already in use.
func assignMissingIDs[T any](existing, incoming []T, id func(*T) *int64) {
	var maxID int64
	for k := range existing {
		maxID = max(maxID, *id(&existing[k]))
	}
	for k := range incoming {
		maxID = max(maxID, *id(&incoming[k]))
	}
	for k := range incoming {
		if p := id(&incoming[k]); *p == 0 {
			maxID++
			*p = maxID
		}
	}
}

// decodeError marks a collection whose records could not be decoded.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decoding records: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

func decodeList[T any](value []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, &decodeError{err: err}
	}
	return items, nil
}

// normalizeValue accepts an array or a JSON string holding one, as
// localStorage keeps values as strings.
func normalizeValue(raw json.RawMessage) ([]byte, error) {
	value := bytes.TrimSpace(raw)
	if len(value) > 0 && value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, &decodeError{err: err}
		}
		value = bytes.TrimSpace([]byte(s))
	}

	if len(value) == 0 || string(value) == "null" {
		return []byte("[]"), nil
	}
	if value[0] != '[' {
		return nil, ErrNotArray
	}
	return value, nil
}

// importedPost accepts the older "date" field and free-form timestamps.
type importedPost struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt"`
	Date      string `json:"date"`
}

// decodePosts stamps posts without a usable timestamp with importedAt.
func decodePosts(value []byte, importedAt time.Time) ([]model.Post, error) {
	raw, err := decodeList[importedPost](value)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, len(raw))
	for k, p := range raw {
		created := p.CreatedAt
		if created == "" {
			created = p.Date
		}
		createdAt, ok := parseTimestamp(created)
		if !ok {
			createdAt = importedAt
		}
		posts[k] = model.Post{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Slug:      p.Slug,
			CreatedAt: createdAt,
		}
	}
	return posts, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func assignPostSlugs(posts []model.Post) {
	for k := range posts {
		if posts[k].Slug == "" {
			posts[k].Slug = repository.PostSlug(posts, posts[k].Title, posts[k].ID)
		}
	}
}

func deriveLessonURLs(lessons []model.Lesson) {
	for k := range lessons {
		l := &lessons[k]
		if l.RawURL == "" {
			l.RawURL = l.URL
		}
		if l.URL == "" {
			l.URL = videourl.Normalize(l.RawURL)
		}
	}
}
