package health

import (
	"context"
	"time"
)

// Pinger checks a backing dependency.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK          bool   `json:"ok"`
	RecordStore string `json:"record_store"`
	ObjectStore string `json:"object_store"`
	Mail        bool   `json:"mail_configured"`
	Error       string `json:"error,omitempty"`
}

// Service reports which backends the process runs with and whether the
// database answers.
type Service struct {
	RecordStore string
	ObjectStore string
	Mail        bool
	DB          Pinger
	Timeout     time.Duration
}

// Status pings the database when one is configured.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, RecordStore: s.RecordStore, ObjectStore: s.ObjectStore, Mail: s.Mail}
	if s.DB == nil {
		return st
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Error = "database unreachable"
	}
	return st
}
