package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/handler"
	"github.com/unclebandit/fellowship-comms/internal/model"
)

// Routes bundles what the router needs. Features is passed explicitly so
// every gate reads the same value.
type Routes struct {
	Communications *CommunicationController
	Members        *handler.MemberHandler
	SMS            *handler.SMSHandler
	Features       config.Features
	JWTSecret      []byte
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(handler.Authenticate(rt.JWTSecret))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(handler.RequireRole(model.RoleMember)).Get("/members", rt.Members.ListMembersHandler)

	// Communication routes
	r.Route("/communications", func(r chi.Router) {
		r.Use(handler.RequireFeature(rt.Features.SMS))
		r.Use(handler.RequireRole(model.RoleAdmin))

		r.Get("/", rt.Communications.ListCommunications)
		r.Post("/", rt.Communications.CreateCommunication)
		r.Get("/stats", rt.Communications.Stats)
		r.Post("/estimate", rt.Communications.Estimate)
		r.Post("/preview", rt.Communications.Preview)
		r.Get("/{id}", rt.Communications.GetCommunication)
		r.Patch("/{id}", rt.Communications.UpdateCommunication)
		r.Post("/{id}/send", rt.Communications.SendCommunication)
	})

	r.With(handler.RequireFeature(rt.Features.SMS), handler.RequireRole(model.RoleAdmin)).
		Post("/sms/test", rt.SMS.TestSMSHandler)

	return r
}
