package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/repository/records"
)

// fixture is the YAML layout accepted by the seed command.
// Records without an id get a fresh one.
type fixture struct {
	Categories []categoryFixture `yaml:"categories"`
	Members    []memberFixture   `yaml:"members"`
	Folders    []folderFixture   `yaml:"folders"`
	Documents  []documentFixture `yaml:"documents"`
}

type categoryFixture struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type memberFixture struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Email       string `yaml:"email"`
	Role        string `yaml:"role"`
}

type folderFixture struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Category    string    `yaml:"category"`
	Owner       string    `yaml:"owner"`
	Created     time.Time `yaml:"created"`
	Archived    bool      `yaml:"archived"`
}

type documentFixture struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Type        string    `yaml:"type"`
	Description string    `yaml:"description"`
	Size        int64     `yaml:"size"`
	Created     time.Time `yaml:"created"`
	Folder      string    `yaml:"folder"`
	Category    string    `yaml:"category"`
	Owner       string    `yaml:"owner"`
	Archived    bool      `yaml:"archived"`
}

// seedSummary is printed after a successful seed.
type seedSummary struct {
	Documents  int `json:"documents"`
	Folders    int `json:"folders"`
	Categories int `json:"categories"`
	Members    int `json:"members"`
}

func loadFixture(path string) (fixture, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

func idOr(id string) string {
	if id == "" {
		return records.NewID()
	}
	return id
}

// seed writes every record of f through repo.
func seed(ctx context.Context, repo *records.Repo, f fixture) (seedSummary, error) {
	cats := make([]record.Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		cats = append(cats, record.Category{
			ID: idOr(c.ID), Name: c.Name, Description: c.Description, Color: c.Color,
		})
	}
	members := make([]record.Member, 0, len(f.Members))
	for _, m := range f.Members {
		members = append(members, record.Member{
			ID: idOr(m.ID), DisplayName: m.DisplayName, Email: m.Email, Role: m.Role,
		})
	}
	folders := make([]record.Folder, 0, len(f.Folders))
	for _, fl := range f.Folders {
		folders = append(folders, record.Folder{
			ID: idOr(fl.ID), Name: fl.Name, Description: fl.Description,
			CategoryID: fl.Category, OwnerID: fl.Owner, Created: fl.Created, Archived: fl.Archived,
		})
	}
	docs := make([]record.Document, 0, len(f.Documents))
	for _, d := range f.Documents {
		docs = append(docs, record.Document{
			ID: idOr(d.ID), Name: d.Name, Type: d.Type, Description: d.Description,
			Size: d.Size, Created: d.Created, FolderID: d.Folder, CategoryID: d.Category,
			OwnerID: d.Owner, Archived: d.Archived,
		})
	}

	if err := repo.PutCategories(ctx, cats); err != nil {
		return seedSummary{}, err
	}
	if err := repo.PutMembers(ctx, members); err != nil {
		return seedSummary{}, err
	}
	if err := repo.PutFolders(ctx, folders); err != nil {
		return seedSummary{}, err
	}
	if err := repo.PutDocuments(ctx, docs); err != nil {
		return seedSummary{}, err
	}
	return seedSummary{
		Documents:  len(docs),
		Folders:    len(folders),
		Categories: len(cats),
		Members:    len(members),
	}, nil
}
