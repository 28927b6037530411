package actionlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActionLog records one admin mutation that reached the backend.
type ActionLog struct {
	ID        uuid.UUID       `json:"id"`
	Module    string          `json:"module"`
	Action    string          `json:"action"`
	Subject   string          `json:"subject"`
	SubjectID int64           `json:"subject_id"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	// Patch is the RFC 6902 patch turning Before into After.
	Patch     json.RawMessage `json:"patch,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type FindParams struct {
	Module    string
	Action    string
	Subject   string
	SubjectID int64
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

func (p *FindParams) Match(l *ActionLog) bool {
	if p == nil {
		return true
	}
	switch {
	case p.Module != "" && l.Module != p.Module:
		return false
	case p.Action != "" && l.Action != p.Action:
		return false
	case p.Subject != "" && l.Subject != p.Subject:
		return false
	case p.SubjectID != 0 && l.SubjectID != p.SubjectID:
		return false
	case p.From != nil && l.CreatedAt.Before(*p.From):
		return false
	case p.To != nil && l.CreatedAt.After(*p.To):
		return false
	}
	return true
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*ActionLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *ActionLog) error
}
