package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/domain/entity"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"

	"github.com/google/uuid"
)

// decodeAndValidate reads a JSON body into dst and runs struct validation. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(dst); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, entity.Role, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetRoleFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// resolveSubject picks whose records a request is about. Admins act on the id given in
// the request; everybody else acts on themselves and may only name their own id.
func resolveSubject(w http.ResponseWriter, r *http.Request, requested string) (uuid.UUID, bool) {
	userID, role, ok := caller(w, r)
	if !ok {
		return uuid.Nil, false
	}

	if role == entity.RoleAdmin {
		id, err := uuid.Parse(requested)
		if err != nil {
			response.BadRequest(w, "A valid user id is required")
			return uuid.Nil, false
		}
		return id, true
	}

	if requested != "" {
		id, err := uuid.Parse(requested)
		if err != nil {
			response.BadRequest(w, "Invalid user id")
			return uuid.Nil, false
		}
		if id != userID {
			response.Forbidden(w, "You can only access your own records")
			return uuid.Nil, false
		}
	}
	return userID, true
}

// decodeOptional decodes a JSON body when one is present. An empty body is not an error.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}
