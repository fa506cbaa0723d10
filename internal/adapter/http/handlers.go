package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Strob0t/CRMForge/internal/domain/activity"
	"github.com/Strob0t/CRMForge/internal/domain/company"
	"github.com/Strob0t/CRMForge/internal/domain/contact"
	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/task"
	"github.com/Strob0t/CRMForge/internal/port/database"
	"github.com/Strob0t/CRMForge/internal/port/messagequeue"
	"github.com/Strob0t/CRMForge/internal/service"
)

const healthTimeout = 2 * time.Second

// Handlers holds the services the HTTP API delegates to.
type Handlers struct {
	Auth       *service.AuthService
	Companies  *service.CompanyService
	Contacts   *service.ContactService
	Deals      *service.DealService
	Tasks      *service.TaskService
	Activities *service.ActivityService
	Dashboard  *service.DashboardService

	Store database.Store
	Queue messagequeue.Queue // nil when NATS is not configured
}

// --- Companies ---

func (h *Handlers) listCompanies(r *http.Request, q database.Query, term string) (service.View[company.Company], error) {
	return h.Companies.View(r.Context(), q, term)
}

// --- Contacts ---

func (h *Handlers) listContacts(r *http.Request, q database.Query, term string) (service.View[contact.Contact], error) {
	return h.Contacts.View(r.Context(), q, term)
}

// --- Deals ---

func (h *Handlers) listDeals(r *http.Request, q database.Query, term string) (service.View[deal.Deal], error) {
	return h.Deals.View(r.Context(), q, term)
}

// DealBoard handles GET /api/v1/deals/board
func (h *Handlers) DealBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.Deals.Board(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type stageRequest struct {
	Stage string `json:"stage"`
}

// SetDealStage handles PATCH /api/v1/deals/{id}/stage
func (h *Handlers) SetDealStage(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[stageRequest](w, r)
	if !ok {
		return
	}
	res, err := h.Deals.SetStage(r.Context(), urlParam(r, "id"), req.Stage)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Tasks ---

func (h *Handlers) listTasks(r *http.Request, q database.Query, term string) (service.View[task.Item], error) {
	return h.Tasks.View(r.Context(), q, term, screenValue(r.URL.Query(), "status"))
}

func (h *Handlers) getTask(ctx context.Context, id string) (task.Item, error) {
	t, err := h.Tasks.Get(ctx, id)
	if err != nil {
		return task.Item{}, err
	}
	return h.Tasks.Item(*t), nil
}

func (h *Handlers) createTask(ctx context.Context, in task.Input) (*service.Result[task.Item], error) {
	res, err := h.Tasks.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return h.Tasks.Present(res), nil
}

func (h *Handlers) updateTask(ctx context.Context, id string, in task.Input) (*service.Result[task.Item], error) {
	res, err := h.Tasks.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return h.Tasks.Present(res), nil
}

func (h *Handlers) deleteTask(ctx context.Context, id string, confirmed bool) (*service.Result[task.Item], error) {
	res, err := h.Tasks.Delete(ctx, id, confirmed)
	if err != nil {
		return nil, err
	}
	return h.Tasks.Present(res), nil
}

// OverdueTasks handles GET /api/v1/tasks/overdue
func (h *Handlers) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	items, err := h.Tasks.Overdue(r.Context())
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.NewView(items))
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetTaskStatus handles PATCH /api/v1/tasks/{id}/status
func (h *Handlers) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[statusRequest](w, r)
	if !ok {
		return
	}
	res, err := h.Tasks.SetStatus(r.Context(), urlParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tasks.Present(res))
}

// --- Activities ---

func (h *Handlers) listActivities(r *http.Request, q database.Query, term string) (service.View[activity.Activity], error) {
	return h.Activities.View(r.Context(), q, term, screenValue(r.URL.Query(), "type"))
}

// --- Dashboard ---

// GetDashboard handles GET /api/v1/dashboard
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Dashboard.Load(r.Context())
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// --- Health ---

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	NATS     string `json:"nats"`
}

// Health handles GET /health. NATS is optional and never fails the check.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", NATS: "disabled"}
	status := http.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		resp.Status, resp.Database = "degraded", "unreachable"
		status = http.StatusServiceUnavailable
	}
	if h.Queue != nil {
		resp.NATS = "connected"
		if !h.Queue.IsConnected() {
			resp.NATS = "disconnected"
		}
	}
	writeJSON(w, status, resp)
}
