package records

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
)

// Hash field names.
const (
	fName        = "name"
	fType        = "type"
	fDescription = "description"
	fSize        = "size"
	fCreated     = "created"
	fFolderID    = "folder_id"
	fCategoryID  = "category_id"
	fOwnerID     = "owner_id"
	fArchived    = "archived"
	fColor       = "color"
	fDisplayName = "display_name"
	fEmail       = "email"
	fRole        = "role"
)

func encodeDocument(d record.Document) map[string]string {
	return map[string]string{
		fName:        d.Name,
		fType:        d.Type,
		fDescription: d.Description,
		fSize:        strconv.FormatInt(d.Size, 10),
		fCreated:     formatTime(d.Created),
		fFolderID:    d.FolderID,
		fCategoryID:  d.CategoryID,
		fOwnerID:     d.OwnerID,
		fArchived:    formatBool(d.Archived),
	}
}

func decodeDocument(id string, m map[string]string) (record.Document, error) {
	size, err := parseInt(m[fSize])
	if err != nil {
		return record.Document{}, fmt.Errorf("document %s: size: %w", id, err)
	}
	created, err := parseTime(m[fCreated])
	if err != nil {
		return record.Document{}, fmt.Errorf("document %s: created: %w", id, err)
	}
	return record.Document{
		ID:          id,
		Name:        m[fName],
		Type:        m[fType],
		Description: m[fDescription],
		Size:        size,
		Created:     created,
		FolderID:    m[fFolderID],
		CategoryID:  m[fCategoryID],
		OwnerID:     m[fOwnerID],
		Archived:    m[fArchived] == "1",
	}, nil
}

func encodeFolder(f record.Folder) map[string]string {
	return map[string]string{
		fName:        f.Name,
		fDescription: f.Description,
		fCategoryID:  f.CategoryID,
		fOwnerID:     f.OwnerID,
		fCreated:     formatTime(f.Created),
		fArchived:    formatBool(f.Archived),
	}
}

func decodeFolder(id string, m map[string]string) (record.Folder, error) {
	created, err := parseTime(m[fCreated])
	if err != nil {
		return record.Folder{}, fmt.Errorf("folder %s: created: %w", id, err)
	}
	return record.Folder{
		ID:          id,
		Name:        m[fName],
		Description: m[fDescription],
		CategoryID:  m[fCategoryID],
		OwnerID:     m[fOwnerID],
		Created:     created,
		Archived:    m[fArchived] == "1",
	}, nil
}

func encodeCategory(c record.Category) map[string]string {
	return map[string]string{
		fName:        c.Name,
		fDescription: c.Description,
		fColor:       c.Color,
	}
}

func decodeCategory(id string, m map[string]string) (record.Category, error) {
	return record.Category{
		ID:          id,
		Name:        m[fName],
		Description: m[fDescription],
		Color:       m[fColor],
	}, nil
}

func encodeMember(mb record.Member) map[string]string {
	return map[string]string{
		fDisplayName: mb.DisplayName,
		fEmail:       mb.Email,
		fRole:        mb.Role,
	}
}

func decodeMember(id string, m map[string]string) (record.Member, error) {
	return record.Member{
		ID:          id,
		DisplayName: m[fDisplayName],
		Email:       m[fEmail],
		Role:        m[fRole],
	}, nil
}

// formatTime stores a zero time as "" so an unknown date survives the round trip.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
