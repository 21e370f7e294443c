package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quizbot/internal/quiz"
	"quizbot/internal/store"
)

// POST /extract  { "text": "..." } -> quiz.Result
func ExtractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		writeJSON(w, quiz.Extract(req.Text))
	}
}

func ListUsersHandler(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := users.ListUsers(r.Context())
		if err != nil {
			http.Error(w, "list users", http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []store.User{}
		}
		writeJSON(w, out)
	}
}

func ListAllowedHandler(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := users.ListAllowed(r.Context())
		if err != nil {
			http.Error(w, "list allowed", http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []store.AllowedUser{}
		}
		writeJSON(w, out)
	}
}

// POST /allowed/{id}  optional body { "username": "..." }
func AllowUserHandler(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad user id", http.StatusBadRequest)
			return
		}
		var req struct {
			Username string `json:"username"`
		}
		// body is optional
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username == "" {
			if u, err := users.GetUser(r.Context(), id); err == nil {
				req.Username = u.Username
			} else if !errors.Is(err, store.ErrNotFound) {
				http.Error(w, "lookup user", http.StatusInternalServerError)
				return
			}
		}
		if err := users.Allow(r.Context(), id, req.Username); err != nil {
			http.Error(w, "allow user", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"user_id": id, "allowed": true})
	}
}

func RemoveAllowedHandler(users store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad user id", http.StatusBadRequest)
			return
		}
		removed, err := users.Remove(r.Context(), id)
		if err != nil {
			http.Error(w, "remove user", http.StatusInternalServerError)
			return
		}
		if !removed {
			http.Error(w, "not on allow-list", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{"user_id": id, "allowed": false})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
