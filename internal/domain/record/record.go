// Package record defines the household entities the search engine federates over.
package record

import (
	"fmt"
	"time"
)

// Kind identifies one of the four record stores.
type Kind string

// Record kinds.
const (
	KindDocument Kind = "documents"
	KindFolder   Kind = "folders"
	KindCategory Kind = "categories"
	KindMember   Kind = "members"
)

// Kinds lists every record kind in fan-out order.
var Kinds = []Kind{KindDocument, KindFolder, KindCategory, KindMember}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindDocument || k == KindFolder || k == KindCategory || k == KindMember
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown record kind %q", s)
	}
	return k, nil
}

// Document is a stored file: a scanned invoice, a manual, a contract.
// A zero Created means the creation date is unknown.
type Document struct {
	ID          string
	Name        string
	Type        string
	Description string
	Size        int64
	Created     time.Time
	FolderID    string
	CategoryID  string
	OwnerID     string
	Archived    bool
}

// Folder is a container grouping documents.
type Folder struct {
	ID          string
	Name        string
	Description string
	CategoryID  string
	OwnerID     string
	Created     time.Time
	Archived    bool
}

// Category is a classification label shared by documents and folders.
type Category struct {
	ID          string
	Name        string
	Description string
	Color       string
}

// Member is a household user record.
type Member struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
}
