package routes

import (
	"encoding/json"
	"net/http"

	"fiesta/fiesta/config"
	"fiesta/fiesta/controllers"
	"fiesta/fiesta/middlewares"

	"github.com/go-chi/chi/v5"
)

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			userIDVal := r.Context().Value(middlewares.UserIDKey)
			id, ok := userIDVal.(int)
			if !ok {
				return nil, http.StatusUnauthorized, nil
			}
			user, err := ctrl.GetUser(r.Context(), id)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))

		gr.Put("/me", handleJSON(func(r *http.Request) (any, int, error) {
			userIDVal := r.Context().Value(middlewares.UserIDKey)
			id, ok := userIDVal.(int)
			if !ok {
				return nil, http.StatusUnauthorized, nil
			}
			var req struct {
				FullName *string `json:"full_name"`
				Phone    *string `json:"phone"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			user, err := ctrl.UpdateProfile(r.Context(), id, req.FullName, req.Phone)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))
	})

	return r
}
