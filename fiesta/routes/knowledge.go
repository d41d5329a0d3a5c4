package routes

import (
	"io"
	"net/http"

	"fiesta/fiesta/config"
	"fiesta/fiesta/controllers"
	"fiesta/fiesta/middlewares"

	"github.com/go-chi/chi/v5"
)

func KnowledgeRoutes(ctrl *controllers.KnowledgeController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// Upload a document (multipart form, field "file")
		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				return nil, http.StatusBadRequest, err
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			defer file.Close()
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			contentType := header.Header.Get("Content-Type")
			key, err := ctrl.Upload(r.Context(), userID, header.Filename, contentType, file, header.Size)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"key": key}, http.StatusCreated, nil
		}))

		// List documents
		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			docs, err := ctrl.List(r.Context(), userID)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return docs, http.StatusOK, nil
		}))

		// Download a document
		gr.Get("/{name}", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			name := chi.URLParam(r, "name")
			obj, err := ctrl.Get(r.Context(), userID, name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			defer obj.Close()
			w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
			io.Copy(w, obj)
		})

		// Delete a document
		gr.Delete("/{name}", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(int)
			name := chi.URLParam(r, "name")
			if err := ctrl.Delete(r.Context(), userID, name); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]string{"status": "deleted"}, http.StatusOK, nil
		}))
	})
	return r
}
