package records

import (
	"time"

	"cruzados-backend/internal/commission"
)

// RecordResponse is the outward-facing representation of a record.
type RecordResponse struct {
	ID           string    `json:"id"`
	Commission   string    `json:"commission"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Description  string    `json:"description"`
	DateAdded    time.Time `json:"date_added"`
	LastModified time.Time `json:"last_modified"`
	Files        []File    `json:"files"`
}

// ListResponse is the body of a record listing.
type ListResponse struct {
	Commission string           `json:"commission"`
	Query      string           `json:"query"`
	Records    []RecordResponse `json:"records"`
}

// CommissionResponse describes one commission for navigation menus.
type CommissionResponse struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

type recordRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ToResponse renders rec as it belongs to c.
func ToResponse(c commission.Commission, rec Record) RecordResponse {
	files := rec.Files
	if files == nil {
		files = []File{}
	}
	return RecordResponse{
		ID:           rec.ID,
		Commission:   string(c),
		Name:         rec.Name,
		Category:     rec.Category,
		Description:  rec.Description,
		DateAdded:    rec.DateAdded,
		LastModified: rec.LastModified,
		Files:        files,
	}
}

// ToResponses renders a listing, never returning nil.
func ToResponses(c commission.Commission, recs []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ToResponse(c, rec))
	}
	return out
}
