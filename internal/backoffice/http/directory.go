package http

import (
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

// DirectoryHandler serves the depot/crew/employee/vehicle CRUD routes. One
// handler, method-per-route, the way the mux patterns are registered.
type DirectoryHandler struct {
	Directory *service.DirectoryService
}

// Depots

func (h *DirectoryHandler) CreateDepot(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.DepotRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	d, err := h.Directory.CreateDepot(r.Context(), rc, service.DepotParams{Name: req.Name, Postcode: req.Postcode})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDepot(d))
}

func (h *DirectoryHandler) GetDepot(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	d, err := h.Directory.GetDepot(r.Context(), rc, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDepot(d))
}

func (h *DirectoryHandler) ListDepots(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	depots, err := h.Directory.ListDepots(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]crewsdk.Depot, 0, len(depots))
	for _, d := range depots {
		out = append(out, toDepot(d))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DirectoryHandler) UpdateDepot(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.DepotRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	d, err := h.Directory.UpdateDepot(r.Context(), rc, r.PathValue("id"), service.DepotParams{Name: req.Name, Postcode: req.Postcode})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDepot(d))
}

func (h *DirectoryHandler) DeleteDepot(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	if err := h.Directory.DeleteDepot(r.Context(), rc, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Crews

func (h *DirectoryHandler) CreateCrew(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.CrewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	c, err := h.Directory.CreateCrew(r.Context(), rc, service.CrewParams{Name: req.Name, DepotID: req.DepotID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCrew(c))
}

func (h *DirectoryHandler) GetCrew(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	c, err := h.Directory.GetCrew(r.Context(), rc, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCrew(c))
}

func (h *DirectoryHandler) ListCrews(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	crews, err := h.Directory.ListCrews(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]crewsdk.Crew, 0, len(crews))
	for _, c := range crews {
		out = append(out, toCrew(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DirectoryHandler) UpdateCrew(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.CrewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	c, err := h.Directory.UpdateCrew(r.Context(), rc, r.PathValue("id"), service.CrewParams{Name: req.Name, DepotID: req.DepotID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCrew(c))
}

func (h *DirectoryHandler) DeleteCrew(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	if err := h.Directory.DeleteCrew(r.Context(), rc, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Employees

func (h *DirectoryHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.EmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	e, err := h.Directory.CreateEmployee(r.Context(), rc, service.EmployeeParams{Name: req.Name, Email: req.Email, CrewID: req.CrewID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEmployee(e))
}

func (h *DirectoryHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	e, err := h.Directory.GetEmployee(r.Context(), rc, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEmployee(e))
}

func (h *DirectoryHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	employees, err := h.Directory.ListEmployees(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]crewsdk.Employee, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployee(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DirectoryHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.EmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	e, err := h.Directory.UpdateEmployee(r.Context(), rc, r.PathValue("id"), service.EmployeeParams{Name: req.Name, Email: req.Email, CrewID: req.CrewID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEmployee(e))
}

func (h *DirectoryHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	if err := h.Directory.DeleteEmployee(r.Context(), rc, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Vehicles

func (h *DirectoryHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.VehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	v, err := h.Directory.CreateVehicle(r.Context(), rc, service.VehicleParams{Registration: req.Registration, Kind: req.Kind, DepotID: req.DepotID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toVehicle(v))
}

func (h *DirectoryHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	v, err := h.Directory.GetVehicle(r.Context(), rc, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVehicle(v))
}

func (h *DirectoryHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	vehicles, err := h.Directory.ListVehicles(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]crewsdk.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicle(v))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DirectoryHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	var req crewsdk.VehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	v, err := h.Directory.UpdateVehicle(r.Context(), rc, r.PathValue("id"), service.VehicleParams{Registration: req.Registration, Kind: req.Kind, DepotID: req.DepotID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVehicle(v))
}

func (h *DirectoryHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}
	if err := h.Directory.DeleteVehicle(r.Context(), rc, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
