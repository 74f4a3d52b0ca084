package records

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/kailas-cloud/homesearch/internal/db"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
)

// DefaultKeyPrefix namespaces every record key.
const DefaultKeyPrefix = "homesearch:"

// store is the consumer interface for record hashes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores the four record kinds as hashes keyed {prefix}{kind}:{id}.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. An empty prefix takes DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// NewID returns a fresh sortable record id.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}

func (r *Repo) kindPrefix(k record.Kind) string {
	return r.prefix + string(k) + ":"
}

// PutDocuments upserts documents. Empty ids are assigned in place.
func (r *Repo) PutDocuments(ctx context.Context, docs []record.Document) error {
	return put(ctx, r, record.KindDocument, docs,
		func(d *record.Document) *string { return &d.ID }, encodeDocument)
}

// PutFolders upserts folders. Empty ids are assigned in place.
func (r *Repo) PutFolders(ctx context.Context, folders []record.Folder) error {
	return put(ctx, r, record.KindFolder, folders,
		func(f *record.Folder) *string { return &f.ID }, encodeFolder)
}

// PutCategories upserts categories. Empty ids are assigned in place.
func (r *Repo) PutCategories(ctx context.Context, cats []record.Category) error {
	return put(ctx, r, record.KindCategory, cats,
		func(c *record.Category) *string { return &c.ID }, encodeCategory)
}

// PutMembers upserts members. Empty ids are assigned in place.
func (r *Repo) PutMembers(ctx context.Context, members []record.Member) error {
	return put(ctx, r, record.KindMember, members,
		func(m *record.Member) *string { return &m.ID }, encodeMember)
}

// ListDocuments returns all documents ordered by id.
func (r *Repo) ListDocuments(ctx context.Context) ([]record.Document, error) {
	return list(ctx, r, record.KindDocument, decodeDocument)
}

// ListFolders returns all folders ordered by id.
func (r *Repo) ListFolders(ctx context.Context) ([]record.Folder, error) {
	return list(ctx, r, record.KindFolder, decodeFolder)
}

// ListCategories returns all categories ordered by id.
func (r *Repo) ListCategories(ctx context.Context) ([]record.Category, error) {
	return list(ctx, r, record.KindCategory, decodeCategory)
}

// ListMembers returns all members ordered by id.
func (r *Repo) ListMembers(ctx context.Context) ([]record.Member, error) {
	return list(ctx, r, record.KindMember, decodeMember)
}

// Delete removes one record. Missing records are not an error.
func (r *Repo) Delete(ctx context.Context, kind record.Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("delete: unknown record kind %q", kind)
	}
	key := r.kindPrefix(kind) + id
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func put[T any](
	ctx context.Context, r *Repo, kind record.Kind, items []T,
	idOf func(*T) *string, encode func(T) map[string]string,
) error {
	if len(items) == 0 {
		return nil
	}
	batch := make([]db.HashSetItem, len(items))
	for i := range items {
		id := idOf(&items[i])
		if *id == "" {
			*id = NewID()
		}
		batch[i] = db.HashSetItem{Key: r.kindPrefix(kind) + *id, Fields: encode(items[i])}
	}
	if err := r.store.HSetMulti(ctx, batch); err != nil {
		return fmt.Errorf("put %s: %w", kind, err)
	}
	return nil
}

func list[T any](
	ctx context.Context, r *Repo, kind record.Kind,
	decode func(id string, m map[string]string) (T, error),
) ([]T, error) {
	prefix := r.kindPrefix(kind)
	keys, err := r.store.Scan(ctx, prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	slices.Sort(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	out := make([]T, 0, len(keys))
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between scan and load
		}
		item, err := decode(strings.TrimPrefix(keys[i], prefix), m)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		out = append(out, item)
	}
	return out, nil
}
