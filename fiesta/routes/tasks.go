package routes

import (
	"encoding/json"
	"net/http"

	"fiesta/fiesta/config"
	"fiesta/fiesta/controllers"
	"fiesta/fiesta/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func TasksRoutes(ctrl *controllers.TasksController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// Create task
		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			var req struct {
				Type        string `json:"type"`
				Title       string `json:"title"`
				Description string `json:"description"`
				Priority    string `json:"priority"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			task, err := ctrl.CreateTask(r.Context(), userID, req.Type, req.Title, req.Description, req.Priority)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return task, http.StatusCreated, nil
		}))

		// List tasks for the authenticated user
		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			tasks, err := ctrl.GetAllTasksByUser(r.Context(), userID)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return tasks, http.StatusOK, nil
		}))

		// Get single task
		gr.Get("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			task, err := ctrl.GetTaskByID(r.Context(), id)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			if task == nil {
				return nil, http.StatusNotFound, nil
			}
			return task, http.StatusOK, nil
		}))

		// Update task (status, priority, title, description)
		gr.Put("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req struct {
				Title       *string `json:"title"`
				Description *string `json:"description"`
				Status      *string `json:"status"`
				Priority    *string `json:"priority"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			updates := map[string]interface{}{}
			if req.Title != nil {
				updates["title"] = *req.Title
			}
			if req.Description != nil {
				updates["description"] = *req.Description
			}
			if req.Status != nil {
				updates["status"] = *req.Status
			}
			if req.Priority != nil {
				updates["priority"] = *req.Priority
			}
			if len(updates) == 0 {
				return nil, http.StatusBadRequest, nil
			}
			if err := ctrl.UpdateTask(r.Context(), id, updates); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"status": "ok"}, http.StatusOK, nil
		}))

		// Delete task
		gr.Delete("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			if err := ctrl.DeleteTask(r.Context(), id); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"status": "deleted"}, http.StatusOK, nil
		}))
	})
	return r
}
