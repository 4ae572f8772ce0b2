package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"household/internal/core"
	"household/internal/log"
	"household/internal/services"
)

// errSecretField rejects any attempt to store a credential secret.
var errSecretField = fmt.Errorf("%w: password entries hold metadata only; secret fields are not accepted", core.ErrInvalidArgument)

type createSubscriptionRequest struct {
	Name            string            `json:"name"`
	Cost            core.Money        `json:"cost"`
	Cycle           core.BillingCycle `json:"billing_cycle"`
	NextBillingDate core.Date         `json:"next_billing_date"`
}

type createPasswordRequest struct {
	Title       string                `json:"title"`
	Username    string                `json:"username"`
	Category    core.PasswordCategory `json:"category"`
	LastUpdated core.Date             `json:"last_updated"`
	Strength    core.PasswordStrength `json:"strength"`

	// Declared only so they can be refused with a clear message.
	Password json.RawMessage `json:"password,omitempty"`
	Secret   json.RawMessage `json:"secret,omitempty"`
}

type createVehicleRequest struct {
	Name         string `json:"name"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
}

type createServiceRecordRequest struct {
	Date        core.Date  `json:"date"`
	Description string     `json:"description"`
	Cost        core.Money `json:"cost"`
	Location    string     `json:"location"`
}

type serviceListBody struct {
	listBody[core.ServiceRecord]
	TotalCost core.Money `json:"total_cost"`
}

type createTaskRequest struct {
	Title    string `json:"title"`
	DueLabel string `json:"due_label"`
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	key, err := services.ParseSubscriptionSortKey(queryString(r.URL.Query(), "sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	subs, err := s.household.ListSubscriptions(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newListBody(subs)).Send(w)
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := core.NewSubscription(req.Name, req.Cost, req.Cycle, req.NextBillingDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.household.AddSubscription(r.Context(), sub); err != nil {
		writeError(w, r, err)
		return
	}
	s.amountChanged(r, log.OpCreate, "subscription", sub.ID, sub.Name, sub.Cost)
	NewJSONResponse().Status(http.StatusCreated).Body(sub).Send(w)
}

// handleListPasswords supports ?category=&q=.
func (s *Server) handleListPasswords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := core.ParsePasswordCategoryFilter(queryString(q, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := s.household.ListPasswords(r.Context(), category, queryString(q, "q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newListBody(entries)).Send(w)
}

func (s *Server) handleCreatePassword(w http.ResponseWriter, r *http.Request) {
	var req createPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Password != nil || req.Secret != nil {
		writeError(w, r, errSecretField)
		return
	}
	p, err := core.NewPasswordEntry(req.Title, req.Username, req.Category, req.LastUpdated, req.Strength)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.household.AddPassword(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	s.recordChanged(r, log.OpCreate, "password", p.ID, p.Title)
	NewJSONResponse().Status(http.StatusCreated).Body(p).Send(w)
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.household.ListVehicles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newListBody(vehicles)).Send(w)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := core.NewVehicle(req.Name, req.Model, req.Year, req.LicensePlate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.household.AddVehicle(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	s.recordChanged(r, log.OpCreate, "vehicle", v.ID, v.Name)
	NewJSONResponse().Status(http.StatusCreated).Body(v).Send(w)
}

// handleListServiceRecords returns a vehicle's history, newest first, with
// the total spent on it.
func (s *Server) handleListServiceRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.household.ListServiceRecords(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	total, err := services.TotalServiceCost(records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(serviceListBody{
		listBody:  newListBody(records),
		TotalCost: total,
	}).Send(w)
}

func (s *Server) handleCreateServiceRecord(w http.ResponseWriter, r *http.Request) {
	var req createServiceRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := core.NewServiceRecord(r.PathValue("id"), req.Date, req.Description, req.Cost, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.household.AddServiceRecord(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	s.amountChanged(r, log.OpCreate, "service_record", rec.ID, rec.Description, rec.Cost)
	NewJSONResponse().Status(http.StatusCreated).Body(rec).Send(w)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.household.ListTasks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newListBody(tasks)).Send(w)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := core.NewTask(req.Title, req.DueLabel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.household.AddTask(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	s.recordChanged(r, log.OpCreate, "task", t.ID, t.Title)
	NewJSONResponse().Status(http.StatusCreated).Body(t).Send(w)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.household.ToggleTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.recordChanged(r, log.OpToggle, "task", t.ID, t.Title)
	NewJSONResponse().Body(t).Send(w)
}
