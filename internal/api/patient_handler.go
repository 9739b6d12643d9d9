package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/service"
)

// PatientHandler serves caretaker-patient links, reminders and activity.
type PatientHandler struct {
	facade   *facade.Facade
	timeFunc func() time.Time
}

// NewPatientHandler creates a PatientHandler.
func NewPatientHandler(f *facade.Facade) *PatientHandler {
	return &PatientHandler{facade: f, timeFunc: time.Now}
}

// ListLinked handles GET /api/patients.
func (h *PatientHandler) ListLinked(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	patients, err := h.facade.LinkedPatients(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	out := make([]*domain.User, len(patients))
	for i, p := range patients {
		out[i] = p.Public()
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /api/patients/{patientID}.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
	if !ok {
		return
	}

	patient, found := h.facade.GetPatientDetails(r.Context(), patientID)
	if !found {
		HandleAPIError(w, r, service.ErrPatientNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, patient.Public())
}

// Connect handles POST /api/patients/{patientID}/connect.
func (h *PatientHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
	if !ok {
		return
	}

	if err := h.facade.ConnectToPatient(r.Context(), userID, patientID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/patients/{patientID}/summary.
func (h *PatientHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
	if !ok {
		return
	}

	summary, err := h.facade.ActivitySummary(r.Context(), userID, patientID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ActivitySummaryResponse{
		Summary:  summary,
		Accuracy: summary.Accuracy(),
	})
}

// SetSafeZone handles PUT /api/patients/{patientID}/safe-zone.
func (h *PatientHandler) SetSafeZone(w http.ResponseWriter, r *http.Request) {
	userID, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
	if !ok {
		return
	}

	var req SafeZoneRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	center := domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	zone, err := h.facade.SetSafeZone(r.Context(), userID, patientID, center, req.RadiusMeters)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, zone)
}

// SafeZoneStatus handles POST /api/patients/{patientID}/safe-zone/status.
func (h *PatientHandler) SafeZoneStatus(w http.ResponseWriter, r *http.Request) {
	userID, patientID, ok := handleUserIDAndPathUUID(w, r, "patientID")
	if !ok {
		return
	}

	var req RouteStatusRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	status, err := h.facade.SafeZoneStatus(r.Context(), userID, patientID,
		domain.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// DueReminders handles GET /api/reminders/due. The optional "at" query
// parameter is an RFC 3339 time and defaults to now.
func (h *PatientHandler) DueReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	at := h.timeFunc()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("at", "must be an RFC 3339 time", nil), "")
			return
		}
		at = parsed
	}

	items, err := h.facade.DueReminders(r.Context(), userID, at)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DueRemindersResponse{At: at, Items: items})
}
