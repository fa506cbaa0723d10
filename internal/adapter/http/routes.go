package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/CRMForge/internal/port/database"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/auth/me", h.Me)

		// Companies
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", handleList(&database.CompanySchema, h.listCompanies))
			r.Get("/count", handleCount(&database.CompanySchema, h.Companies.Count))
			r.Post("/", handleCreate(h.Companies.Create))
			r.Get("/{id}", handleGet(h.Companies.Get))
			r.Put("/{id}", handleUpdate(h.Companies.Update))
			r.Delete("/{id}", handleDelete(h.Companies.Delete))
		})

		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", handleList(&database.ContactSchema, h.listContacts))
			r.Get("/count", handleCount(&database.ContactSchema, h.Contacts.Count))
			r.Post("/", handleCreate(h.Contacts.Create))
			r.Get("/{id}", handleGet(h.Contacts.Get))
			r.Put("/{id}", handleUpdate(h.Contacts.Update))
			r.Delete("/{id}", handleDelete(h.Contacts.Delete))
		})

		// Deals
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", handleList(&database.DealSchema, h.listDeals))
			r.Get("/count", handleCount(&database.DealSchema, h.Deals.Count))
			r.Get("/board", h.DealBoard)
			r.Post("/", handleCreate(h.Deals.Create))
			r.Get("/{id}", handleGet(h.Deals.Get))
			r.Put("/{id}", handleUpdate(h.Deals.Update))
			r.Patch("/{id}/stage", h.SetDealStage)
			r.Delete("/{id}", handleDelete(h.Deals.Delete))
		})

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", handleList(&database.TaskSchema, h.listTasks, "status"))
			r.Get("/count", handleCount(&database.TaskSchema, h.Tasks.Count))
			r.Get("/overdue", h.OverdueTasks)
			r.Post("/", handleCreate(h.createTask))
			r.Get("/{id}", handleGet(h.getTask))
			r.Put("/{id}", handleUpdate(h.updateTask))
			r.Patch("/{id}/status", h.SetTaskStatus)
			r.Delete("/{id}", handleDelete(h.deleteTask))
		})

		// Activities (append-only)
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", handleList(&database.ActivitySchema, h.listActivities, "type"))
			r.Get("/count", handleCount(&database.ActivitySchema, h.Activities.Count))
			r.Post("/", handleCreate(h.Activities.Create))
			r.Get("/{id}", handleGet(h.Activities.Get))
			r.Delete("/{id}", handleDelete(h.Activities.Delete))
		})

		// Dashboard
		r.Get("/dashboard", h.GetDashboard)
	})
}
