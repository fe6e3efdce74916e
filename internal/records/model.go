package records

import (
	"strings"
	"time"
)

// Category is the closed set of record kinds.
type Category string

const (
	CategoryText     Category = "Texto"
	CategoryDocument Category = "Documento"
	CategoryImage    Category = "Imagen"
)

// Categories lists the accepted categories in form order.
var Categories = []Category{CategoryText, CategoryDocument, CategoryImage}

// ParseCategory reports whether raw is one of the accepted categories.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(strings.TrimSpace(raw)); c {
	case CategoryText, CategoryDocument, CategoryImage:
		return c, true
	default:
		return "", false
	}
}

// File is a stored attachment reference.
type File struct {
	Name string `json:"name" firestore:"name"`
	URL  string `json:"url" firestore:"url"`
}

// Record is one piece of commission content.
type Record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Description  string    `json:"description"`
	DateAdded    time.Time `json:"date_added"`
	LastModified time.Time `json:"last_modified"`
	Files        []File    `json:"files"`
}

// Draft carries the caller-supplied fields of a new record. ID is normally
// left empty for the store to assign.
type Draft struct {
	ID          string
	Name        string
	Category    Category
	Description string
	Files       []File
}

// Patch lists the fields an update changes. Nil fields are left as stored;
// a non-nil Files replaces the whole attachment list.
type Patch struct {
	Name        *string
	Category    *Category
	Description *string
	Files       *[]File
}

func (p Patch) apply(rec Record) Record {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Category != nil {
		rec.Category = *p.Category
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Files != nil {
		rec.Files = cloneFiles(*p.Files)
	}
	return rec
}

func cloneFiles(files []File) []File {
	out := make([]File, len(files))
	copy(out, files)
	return out
}

func cloneRecord(rec Record) Record {
	rec.Files = cloneFiles(rec.Files)
	return rec
}
