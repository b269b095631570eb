package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/middleware"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func statusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindBadRequest:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps the error taxonomy to an HTTP status and a JSON error
// body. Internal causes are logged and never echoed to the client.
func respondError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindInternal {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
	}
	writeJSON(w, statusForKind(kind), map[string]string{"error": errs.MessageOf(err)})
}

// currentUser pulls the authenticated user id injected by the JWT middleware.
func currentUser(r *http.Request) (primitive.ObjectID, error) {
	id, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		return primitive.NilObjectID, errs.Unauthorized("authentication required")
	}
	return id, nil
}

func parseObjectID(hex, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errs.BadRequestf("invalid %s format", label)
	}
	return id, nil
}

// parseTimeParam accepts RFC3339 or a bare date. A bare date used as a range
// end is widened to the end of that day so [from, to] stays inclusive.
func parseTimeParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errs.BadRequestf("invalid date value: %s", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
