// Package audit holds the append-only record of who changed what.
package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action is the verb recorded for a mutation
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionActivated     Action = "activated"
	ActionDeactivated   Action = "deactivated"
	ActionPosted        Action = "posted"
	ActionTransferred   Action = "transferred"
	ActionReceived      Action = "received"
	ActionIssued        Action = "issued"
	ActionAdjusted      Action = "adjusted"
	ActionStatusChanged Action = "status_changed"
	ActionLogoUpdated   Action = "logo_updated"
	ActionLoggedIn      Action = "logged_in"
)

// SubjectType names the kind of record an audit entry is about
type SubjectType string

const (
	SubjectAccountCategory SubjectType = "account_category"
	SubjectAccount         SubjectType = "chart_of_account"
	SubjectFinancialYear   SubjectType = "financial_year"
	SubjectJournalEntry    SubjectType = "journal_entry"
	SubjectProduct         SubjectType = "product"
	SubjectWarehouse       SubjectType = "warehouse"
	SubjectCompanySetting  SubjectType = "company_setting"
	SubjectTaxSetting      SubjectType = "tax_setting"
	SubjectUser            SubjectType = "user"
	SubjectDepartment      SubjectType = "department"
	SubjectDesignation     SubjectType = "designation"
	SubjectEmployee        SubjectType = "employee"
)

// Payload is a flat JSON object stored alongside an audit entry
type Payload map[string]any

// Value implements driver.Valuer
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported audit payload type %T", value)
	}
	if len(raw) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(raw, p)
}

// AuditLog is one immutable audit record. It is never updated or deleted.
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID     *uuid.UUID  `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	ActorEmail  string      `gorm:"type:varchar(255)" json:"actor_email,omitempty"`
	SubjectType SubjectType `gorm:"type:varchar(50);not null;index:idx_audit_subject" json:"subject_type"`
	SubjectID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_audit_subject" json:"subject_id"`
	Action      Action      `gorm:"type:varchar(50);not null;index" json:"action"`
	OldValues   Payload     `gorm:"type:jsonb" json:"old_values,omitempty"`
	NewValues   Payload     `gorm:"type:jsonb" json:"new_values,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog builds a log row from an entry
func NewAuditLog(e Entry) *AuditLog {
	log := &AuditLog{
		ID:          uuid.New(),
		ActorEmail:  e.Actor.Email,
		SubjectType: e.SubjectType,
		SubjectID:   e.SubjectID,
		Action:      e.Action,
		OldValues:   e.OldValues,
		NewValues:   e.NewValues,
		CreatedAt:   time.Now(),
	}
	if e.Actor.ID != uuid.Nil {
		id := e.Actor.ID
		log.ActorID = &id
	}
	return log
}
