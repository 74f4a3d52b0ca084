package source

import (
	"context"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
)

// DocumentLister lists every stored document.
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]record.Document, error)
}

// FolderLister lists every stored folder.
type FolderLister interface {
	ListFolders(ctx context.Context) ([]record.Folder, error)
}

// CategoryLister lists every stored category.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]record.Category, error)
}

// MemberLister lists every stored member.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]record.Member, error)
}
