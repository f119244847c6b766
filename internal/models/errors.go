// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by singular read operations when the requested
// entity does not exist. Batch reads omit missing ids instead.
var ErrNotFound = errors.New("entity not found")

// ResolutionError reports a reference that did not resolve to an existing
// entity: a catalog id, category id, parent id, or link target pointing
// nowhere. It is fatal for the operation that hit it — callers never
// receive partially-wired objects.
type ResolutionError struct {
	Kind      EntityKind // entity kind that failed to resolve
	Field     string     // field on the owner holding the dangling id
	ID        uuid.UUID  // the id that did not resolve
	OwnerKind EntityKind
	OwnerID   uuid.UUID
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unresolved %s reference: %s %s has %s=%s pointing to a missing %s",
		e.Kind, e.OwnerKind, e.OwnerID, e.Field, e.ID, e.Kind)
}

// IsResolution reports whether err is (or wraps) a ResolutionError.
func IsResolution(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
