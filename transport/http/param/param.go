// Package param reads route parameters.
package param

import (
	"fmt"
	"net/http"

	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/validator"

	"github.com/go-chi/chi/v5"
)

// UUID returns the named path segment. Ids are UUIDs, so a malformed one names no stored
// entity and is reported as NotFound with the entity's usual message.
func UUID(r *http.Request, key, entity string) (string, error) {
	id := chi.URLParam(r, key)

	if err := validator.ValidateVar(id, "uuid"); err != nil {
		return id, failure.NotFound(fmt.Sprintf("No %s with the id of %s", entity, id)) // nolint:wrapcheck
	}

	return id, nil
}

// OptionalUUID is UUID for segments that only some routes carry. An absent segment yields "".
func OptionalUUID(r *http.Request, key, entity string) (string, error) {
	if chi.URLParam(r, key) == constant.Empty {
		return constant.Empty, nil
	}

	return UUID(r, key, entity)
}
