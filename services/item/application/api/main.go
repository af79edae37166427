package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/Dilyara077/practice-task/pkg/app"
	"github.com/Dilyara077/practice-task/pkg/auth"
	"github.com/Dilyara077/practice-task/pkg/config"
	"github.com/Dilyara077/practice-task/pkg/logger"
	"github.com/Dilyara077/practice-task/services/item/application/handlers"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
)

// Options configures one mounted resource.
type Options struct {
	ResourceName      string
	ProtectedOps      []string // subset of config.AllOperations behind the API key
	APIKey            string
	SupportsFiltering bool
	ListEnvelope      bool
}

// OptionsFromConfig derives route options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ResourceName:      cfg.ResourceName,
		ProtectedOps:      cfg.AuthOperationList(),
		APIKey:            cfg.APIKey,
		SupportsFiltering: cfg.SupportsFiltering,
		ListEnvelope:      cfg.ListEnvelope,
	}
}

// ItemRoutes registers the resource endpoints on the provided chi router and
// returns the wired services so callers can reuse them (health probes).
func ItemRoutes(r chi.Router, a *app.Application) *appsvcs.Services {
	svcs := appsvcs.New(a)
	RegisterRoutes(r, svcs, OptionsFromConfig(a.Config), a.Logger)
	return svcs
}

// RegisterRoutes mounts /api/{resource} with the access gate applied to each
// protected operation.
func RegisterRoutes(r chi.Router, svcs *appsvcs.Services, opts Options, log logger.Logger) {
	gate := auth.RequireAPIKey(opts.APIKey, log)
	guard := func(op string, h http.HandlerFunc) http.Handler {
		if slices.Contains(opts.ProtectedOps, op) {
			return gate(h)
		}
		return h
	}

	list := handlers.NewListItemsHandler(svcs, handlers.ListOptions{
		SupportsFiltering: opts.SupportsFiltering,
		Envelope:          opts.ListEnvelope,
	})

	r.Route("/api/"+opts.ResourceName, func(r chi.Router) {
		r.Method(http.MethodGet, "/", guard(config.OpList, list.Execute))
		r.Method(http.MethodPost, "/", guard(config.OpCreate, handlers.NewPostItemHandler(svcs).Execute))
		r.Route("/{id}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", guard(config.OpGet, handlers.NewGetItemHandler(svcs).Execute))
			r.Method(http.MethodPut, "/", guard(config.OpReplace, handlers.NewPutItemHandler(svcs).Execute))
			r.Method(http.MethodPatch, "/", guard(config.OpUpdate, handlers.NewPatchItemHandler(svcs).Execute))
			r.Method(http.MethodDelete, "/", guard(config.OpDelete, handlers.NewDeleteItemHandler(svcs).Execute))
		})
	})
}
