package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/service/records"
)

// listRecords handles GET /api/patients/{patientID}/<kind>.
func listRecords[T domain.Record[T], P domain.Patch[T]](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
		if !ok {
			return
		}

		recs, err := svc.List(r.Context(), userID, patientID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, recs)
	}
}

// addRecord handles POST /api/patients/{patientID}/<kind>. The owner comes
// from the path, never from the body.
func addRecord[T domain.Record[T], P domain.Patch[T]](
	svc *records.Service[T, P],
	setOwner func(*T, uuid.UUID),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
		if !ok {
			return
		}

		var rec T
		if err := shared.DecodeJSON(r, &rec); err != nil {
			badRequest(w, r, err)
			return
		}
		setOwner(&rec, patientID)

		added, err := svc.Add(r.Context(), userID, rec)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusCreated, added)
	}
}

// getRecord handles GET /api/<kind>/{id}.
func getRecord[T domain.Record[T], P domain.Patch[T]](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
		if !ok {
			return
		}

		rec, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, rec)
	}
}

// updateRecord handles PATCH /api/<kind>/{id}.
func updateRecord[T domain.Record[T], P domain.Patch[T]](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
		if !ok {
			return
		}

		var patch P
		if err := shared.DecodeJSON(r, &patch); err != nil {
			badRequest(w, r, err)
			return
		}

		rec, err := svc.Update(r.Context(), userID, id, patch)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, rec)
	}
}

// RecordHandler serves the actions specific to one record kind.
type RecordHandler struct {
	facade *facade.Facade
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(f *facade.Facade) *RecordHandler {
	return &RecordHandler{facade: f}
}

// DeleteGame handles DELETE /api/games/{id}.
func (h *RecordHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.facade.Games.Remove(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteScheduleItem handles POST /api/schedule/{id}/complete.
func (h *RecordHandler) CompleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.facade.CompleteScheduleItem(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// RouteStatus handles POST /api/routes/{id}/status.
func (h *RecordHandler) RouteStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req RouteStatusRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	status, err := h.facade.RouteStatus(r.Context(), userID, id,
		domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}
