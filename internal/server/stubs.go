package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// registerStubRoutes mounts the surfaces the extension probes but this
// local backend does not really implement: billing is always premium,
// there is a single local organization, and everything else is a no-op.
// The payloads are the ones the extension expects verbatim.
func (s *Server) registerStubRoutes(r chi.Router) {
	emptyObj := map[string]any{}

	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/status", s.static(map[string]any{
			"isSubscribed":        true,
			"subscriptionType":    "premium",
			"status":              "active",
			"billingInterval":     "monthly",
			"subscriptionId":      "premium-local",
			"isPastDue":           false,
			"pastDueUrl":          nil,
			"reason":              nil,
			"currentOrgId":        "local-org",
			"currentOrgName":      "Mon organisation",
			"orgWithSubscription": nil,
		}))
		r.Get("/", s.static(map[string]any{
			"isSubscribed": true, "isPastDue": false, "pastDueUrl": nil, "subscriptions": []any{},
		}))
		r.Get("/invoices", s.static([]any{}))
		r.Get("/discount-used", s.static(map[string]any{"used": false}))
		r.Get("/50-percent-off", s.static(emptyObj))
		r.Get("/1-euro-off", s.static(emptyObj))
		r.Get("/create-portal-session", s.static(map[string]any{"url": nil}))
		r.Post("/unsubscribe-feedback", s.static(emptyObj))
		r.Post("/{id}/cancel", s.static(successBody))
		r.Post("/{id}/upgrade-to-annual", s.static(map[string]any{"url": nil}))
		r.Post("/{id}/reactivate", s.static(emptyObj))
		r.Post("/{id}/upgrade-to-pro-ai", s.static(map[string]any{"url": nil}))
		r.Post("/{id}/downgrade-to-pro", s.static(map[string]any{"url": nil}))
		r.Post("/{id}/cancel-scheduled-change", s.static(emptyObj))
	})

	r.Route("/organizations", func(r chi.Router) {
		r.Get("/", s.static([]any{
			map[string]any{"id": "local-org", "name": "Mon organisation", "role": "owner", "members": []any{}},
		}))
		r.Post("/", s.handleCreateOrganization)
		r.Post("/set-current", s.static(successBody))
		r.Delete("/{id}", s.static(successBody))
	})

	r.Get("/settings", s.static(emptyObj))
	r.Post("/settings", s.static(emptyObj))
	r.Get("/past-posts", s.static([]any{}))
	r.Delete("/past-posts/{id}", s.static(successBody))
	r.Get("/feedback", s.static(emptyObj))
	r.Get("/accounts", s.static(emptyObj))
	r.Put("/accounts", s.static(successBody))
	r.Get("/accounts/is-my-linkedin-id", s.static(map[string]any{"isMyLinkedinId": false}))

	r.Get("/profile", s.static(map[string]any{"data": map[string]any{}}))
	r.Post("/profile/onboarding-lists", s.static(map[string]any{"data": map[string]any{"lists": []any{}}}))
	r.Post("/profile/generate-prompt", s.static(emptyObj))
	r.Post("/profile/generate-profiles-from-list-name", s.static(map[string]any{"data": map[string]any{"items": []any{}}}))

	r.Get("/notifications", s.static(map[string]any{"feeds": []any{}}))
	r.Get("/updates/latest", s.static(map[string]any{"updates": []any{}}))
	r.Post("/update-reads/{id}/mark", s.static(successBody))
	r.Post("/update-reads/{id}/is-read", s.static(successBody))

	r.Post("/analytics/activity-logs", s.static(successBody))
	r.Post("/analytics/activity-logs/batch", s.static(successBody))
	r.Post("/analytics/focus-mode-sessions", s.static(successBody))
	r.Post("/analytics/generation-sessions", s.static(successBody))
	r.Post("/analytics/comment-sessions", s.static(successBody))

	r.Get("/posts/sync-session/active", s.static(nil))
	r.Get("/posts/sync-session/last-completed", s.static(nil))
	r.Post("/posts/sync-session/start", s.static(map[string]any{"id": "local-sync"}))
	r.Post("/posts/sync-with-analytics", s.static(successBody))
	r.Get("/posts/from-linkpost", s.static(map[string]any{"posts": []any{}}))
	r.Post("/posts/reaction-prediction", s.static(map[string]any{
		"reactionPrediction": map[string]any{
			"like": 70, "celebrate": 10, "support": 10, "love": 5, "insightful": 5, "total": 100,
		},
	}))

	r.Get("/promotion-banners", s.static(map[string]any{"banners": []any{}}))
	r.Get("/carousel", s.static(map[string]any{"data": []any{}}))
	r.Get("/carousel/{id}", s.static(emptyObj))
	r.Get("/leaderboard/generate-pdf", s.static(map[string]any{"data": []any{}}))
	r.Post("/leaderboard/send-pdfs-by-email", s.static(emptyObj))
	r.Get("/linkedin/fetch-post-comments-fetchin", s.static(map[string]any{"data": []any{}}))
	r.Get("/lumail/user-count", s.static(map[string]any{"userCount": 100}))
	r.Get("/rewrite-options", s.static(map[string]any{"options": []any{}}))
	r.Get("/rewrite-options/get-multiple", s.static(map[string]any{"options": []any{}}))
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	decodeBody(r, &req)
	if req.Name == "" {
		req.Name = "Mon organisation"
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": "local-org", "name": req.Name})
}
