package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/backoffice/internal/http/accounting"
	"github.com/MrJamesThe3rd/backoffice/internal/http/auth"
	"github.com/MrJamesThe3rd/backoffice/internal/http/export"
	"github.com/MrJamesThe3rd/backoffice/internal/http/home"
	"github.com/MrJamesThe3rd/backoffice/internal/http/inventory"
	"github.com/MrJamesThe3rd/backoffice/internal/http/parties"
	"github.com/MrJamesThe3rd/backoffice/internal/http/procurement"
	"github.com/MrJamesThe3rd/backoffice/internal/http/sales"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
)

type Options struct {
	Timeout     time.Duration
	CORSOrigins []string
	FailOpen    bool
}

func New(newClient shell.ClientFactory, v *view.Renderer, opts Options) http.Handler {
	var (
		authH        = auth.NewHandler(newClient, v)
		homeH        = home.NewHandler(v)
		inventoryH   = inventory.NewHandler(v)
		partiesH     = parties.NewHandler(v)
		salesH       = sales.NewHandler(v)
		procurementH = procurement.NewHandler(v)
		accountingH  = accounting.NewHandler(v)
		exportH      = export.NewHandler(v)
		frame        = shell.New(newClient, v, opts.FailOpen)
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, nav.PathHome, http.StatusSeeOther)
	})

	authH.Routes(router)

	router.Route(nav.PathHome, func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"Accept"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(frame.Middleware)
		r.Use(shell.Writable(v))

		homeH.Routes(r)
		inventoryH.Routes(r)
		partiesH.Routes(r)
		salesH.Routes(r)
		procurementH.Routes(r)
		accountingH.Routes(r)
		exportH.Routes(r)
	})

	return router
}
