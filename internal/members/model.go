package members

import "time"

// JoinRequest is an application to join the association, tied to the
// account that submitted it.
type JoinRequest struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	FullName    string    `json:"fullName"`
	DNI         string    `json:"dni"`
	BirthDate   time.Time `json:"birthDate"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	Experience  []string  `json:"experience"`
	Motivation  string    `json:"motivation,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileUpdate holds the join-request fields a member may edit later
// from their settings page.
type ProfileUpdate struct {
	Address    string
	BirthDate  time.Time
	Phone      string
	Motivation string
}

func (p ProfileUpdate) apply(jr JoinRequest) JoinRequest {
	jr.Address = p.Address
	jr.BirthDate = p.BirthDate
	jr.Phone = p.Phone
	jr.Motivation = p.Motivation
	return jr
}

func cloneRequest(jr JoinRequest) JoinRequest {
	jr.Experience = append([]string(nil), jr.Experience...)
	if jr.Experience == nil {
		jr.Experience = []string{}
	}
	return jr
}
