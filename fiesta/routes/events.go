package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fiesta/fiesta/config"
	"fiesta/fiesta/controllers"
	"fiesta/fiesta/middlewares"
	"fiesta/fiesta/sources/psql/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func EventsRoutes(ctrl *controllers.EventsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// Create a local event
		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			var req struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				Location    string    `json:"location"`
				StartAt     time.Time `json:"start_at"`
				EndAt       time.Time `json:"end_at"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			event := &models.CalendarEvent{
				UserID:      userID,
				Title:       req.Title,
				Description: req.Description,
				Location:    req.Location,
				StartAt:     req.StartAt,
				EndAt:       req.EndAt,
				Status:      "confirmed",
			}
			if err := ctrl.CreateEvent(r.Context(), event); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return event, http.StatusCreated, nil
		}))

		// List events; ?upcoming=<days> limits to the coming horizon
		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			if daysStr := r.URL.Query().Get("upcoming"); daysStr != "" {
				days, err := strconv.Atoi(daysStr)
				if err != nil {
					return nil, http.StatusBadRequest, err
				}
				events, err := ctrl.ListUpcoming(r.Context(), userID, days)
				if err != nil {
					return nil, http.StatusInternalServerError, err
				}
				return events, http.StatusOK, nil
			}
			events, err := ctrl.GetAllEventsByUser(r.Context(), userID)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return events, http.StatusOK, nil
		}))

		// Store Google Calendar credentials for the user
		gr.Put("/integration", handleJSON(func(r *http.Request) (any, int, error) {
			var req struct {
				CalendarID  string `json:"calendar_id"`
				AccessToken string `json:"access_token"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			if req.AccessToken == "" {
				return nil, http.StatusBadRequest, nil
			}
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			if err := ctrl.ConnectCalendar(r.Context(), userID, req.CalendarID, req.AccessToken); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"status": "connected"}, http.StatusOK, nil
		}))

		// Pull upcoming events from Google Calendar into the local table
		gr.Post("/sync", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			synced, err := ctrl.SyncFromGoogle(r.Context(), userID)
			if err != nil {
				return nil, http.StatusBadGateway, err
			}
			return map[string]int{"synced": synced}, http.StatusOK, nil
		}))

		// Update event
		gr.Put("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req struct {
				Title       *string    `json:"title"`
				Description *string    `json:"description"`
				Location    *string    `json:"location"`
				StartAt     *time.Time `json:"start_at"`
				EndAt       *time.Time `json:"end_at"`
				Status      *string    `json:"status"`
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
			if req.Location != nil {
				updates["location"] = *req.Location
			}
			if req.StartAt != nil {
				updates["start_at"] = *req.StartAt
			}
			if req.EndAt != nil {
				updates["end_at"] = *req.EndAt
			}
			if req.Status != nil {
				updates["status"] = *req.Status
			}
			if len(updates) == 0 {
				return nil, http.StatusBadRequest, nil
			}
			if err := ctrl.UpdateEvent(r.Context(), id, updates); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"status": "ok"}, http.StatusOK, nil
		}))

		// Delete event
		gr.Delete("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			if err := ctrl.DeleteEvent(r.Context(), id); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"status": "deleted"}, http.StatusOK, nil
		}))
	})
	return r
}
