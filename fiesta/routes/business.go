package routes

import (
	"encoding/json"
	"net/http"

	"fiesta/fiesta/config"
	"fiesta/fiesta/controllers"
	"fiesta/fiesta/middlewares"
	"fiesta/fiesta/types"

	"github.com/go-chi/chi/v5"
)

func BusinessRoutes(ctrl *controllers.BusinessController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// Draft an event quote
		gr.Post("/quote", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.QuoteRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			quote, raw, err := ctrl.GenerateQuote(r.Context(), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			if quote == nil {
				// The model did not return parseable JSON; hand back the text
				return map[string]string{"raw": raw}, http.StatusOK, nil
			}
			return quote, http.StatusOK, nil
		}))
	})
	return r
}
