package source

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	"github.com/kailas-cloud/homesearch/internal/metrics"
)

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// NewDocuments adapts a document store. Documents match on name, type and description.
func NewDocuments(l DocumentLister, m *metrics.Search, logger *zap.Logger) *Adapter[record.Document] {
	return &Adapter[record.Document]{
		kind: record.KindDocument,
		list: l.ListDocuments,
		fields: func(d record.Document) []string {
			return []string{d.Name, d.Type, d.Description}
		},
		allow: func(d record.Document, f filter.Set) bool {
			return f.AllowsType(d.Type) &&
				f.AllowsCategory(d.CategoryID) &&
				f.AllowsMember(d.OwnerID) &&
				f.AllowsSize(d.Size) &&
				f.AllowsDate(d.Created) &&
				f.AllowsArchived(d.Archived)
		},
		name:    func(d record.Document) string { return d.Name },
		tag:     suggestion.FromFileName,
		metrics: m,
		logger:  orNop(logger),
	}
}

// NewFolders adapts a folder store. Folders match on name and description.
func NewFolders(l FolderLister, m *metrics.Search, logger *zap.Logger) *Adapter[record.Folder] {
	return &Adapter[record.Folder]{
		kind: record.KindFolder,
		list: l.ListFolders,
		fields: func(f record.Folder) []string {
			return []string{f.Name, f.Description}
		},
		allow: func(fo record.Folder, f filter.Set) bool {
			return f.AllowsCategory(fo.CategoryID) &&
				f.AllowsMember(fo.OwnerID) &&
				f.AllowsDate(fo.Created) &&
				f.AllowsArchived(fo.Archived)
		},
		name:    func(f record.Folder) string { return f.Name },
		tag:     suggestion.FromFolderName,
		metrics: m,
		logger:  orNop(logger),
	}
}

// NewCategories adapts a category store. Categories match on name and description.
func NewCategories(l CategoryLister, m *metrics.Search, logger *zap.Logger) *Adapter[record.Category] {
	return &Adapter[record.Category]{
		kind: record.KindCategory,
		list: l.ListCategories,
		fields: func(c record.Category) []string {
			return []string{c.Name, c.Description}
		},
		allow: func(c record.Category, f filter.Set) bool {
			return f.AllowsCategory(c.ID)
		},
		metrics: m,
		logger:  orNop(logger),
	}
}

// NewMembers adapts a member store. Members match on display name and email.
func NewMembers(l MemberLister, m *metrics.Search, logger *zap.Logger) *Adapter[record.Member] {
	return &Adapter[record.Member]{
		kind: record.KindMember,
		list: l.ListMembers,
		fields: func(mb record.Member) []string {
			return []string{mb.DisplayName, mb.Email}
		},
		allow: func(mb record.Member, f filter.Set) bool {
			return f.AllowsMember(mb.ID)
		},
		metrics: m,
		logger:  orNop(logger),
	}
}
