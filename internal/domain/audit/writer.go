package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor identifies who performed a mutation
type Actor struct {
	ID    uuid.UUID
	Email string
}

// SystemActor is used for mutations not triggered by a signed-in user
var SystemActor = Actor{Email: "system"}

// Entry is the input to a Writer
type Entry struct {
	Actor       Actor
	SubjectType SubjectType
	SubjectID   uuid.UUID
	Action      Action
	OldValues   Payload
	NewValues   Payload
}

// Writer records audit entries. Implementations bound to a transaction
// commit or roll back together with the mutation they describe.
type Writer interface {
	Record(ctx context.Context, entry Entry) error
}

// Repository persists and queries audit logs
type Repository interface {
	Writer
	FindByID(ctx context.Context, id uuid.UUID) (*AuditLog, error)
	List(ctx context.Context, filter ListFilter) ([]AuditLog, int64, error)
}

// ListFilter narrows an audit log query
type ListFilter struct {
	shared.Filter
	SubjectType SubjectType
	SubjectID   *uuid.UUID
	ActorID     *uuid.UUID
	Action      Action
	From        *time.Time
	To          *time.Time
}

// Snapshot converts a value to a flat payload through its JSON form.
// Sensitive fields are dropped.
func Snapshot(v any) Payload {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil
	}
	for _, k := range redactedKeys {
		delete(p, k)
	}
	return p
}

var redactedKeys = []string{"password", "password_hash", "created_at", "updated_at", "version"}

// Diff returns only the keys whose values differ between the two snapshots
func Diff(before, after any) (oldValues, newValues Payload) {
	o := Snapshot(before)
	n := Snapshot(after)
	oldValues = Payload{}
	newValues = Payload{}
	for k, nv := range n {
		ov, ok := o[k]
		if !ok || !reflect.DeepEqual(ov, nv) {
			oldValues[k] = ov
			newValues[k] = nv
		}
	}
	for k, ov := range o {
		if _, ok := n[k]; !ok {
			oldValues[k] = ov
			newValues[k] = nil
		}
	}
	return oldValues, newValues
}

// Created builds an entry for a newly created record
func Created(actor Actor, subject SubjectType, id uuid.UUID, v any) Entry {
	return Entry{Actor: actor, SubjectType: subject, SubjectID: id, Action: ActionCreated, NewValues: Snapshot(v)}
}

// Updated builds an entry carrying the changed fields only
func Updated(actor Actor, subject SubjectType, id uuid.UUID, before, after any) Entry {
	o, n := Diff(before, after)
	return Entry{Actor: actor, SubjectType: subject, SubjectID: id, Action: ActionUpdated, OldValues: o, NewValues: n}
}

// Deleted builds an entry holding a snapshot of the removed record
func Deleted(actor Actor, subject SubjectType, id uuid.UUID, v any) Entry {
	return Entry{Actor: actor, SubjectType: subject, SubjectID: id, Action: ActionDeleted, OldValues: Snapshot(v)}
}
