package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"skinvault/pkg/httpx/reply"
	"skinvault/pkg/logx"
	"skinvault/pkg/middlewarex"
)

type RouterOptions struct {
	SensitiveDataMasker logx.SensitiveDataMaskerInterface
	LogFieldMaxLen      int
}

// NewRouter builds the full middleware chain around the routes.
func (s Server) NewRouter(opts RouterOptions) http.Handler {
	if opts.SensitiveDataMasker == nil {
		opts.SensitiveDataMasker = logx.NewSensitiveDataMasker()
	}

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Recovery,
		middlewarex.RequestLogging(opts.SensitiveDataMasker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(opts.SensitiveDataMasker, opts.LogFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middlewarex.CORS)

		r.Post("/get-market-prices", s.postMarketPrices)
		r.Options("/get-market-prices", preflight)
		r.Post("/steam-api", s.postSteamAPI)
		r.Options("/steam-api", preflight)
	})

	r.Route("/v1", func(r chi.Router) {
		// unauthorized zone
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", handler(s.postV1AuthSignUp))
			r.Post("/sign-in", handler(s.postV1AuthSignIn))
			r.Get("/session", handler(s.getV1AuthSession))
		})

		r.Post("/trade/evaluate", handler(s.postV1TradeEvaluate))

		// anonymous callers get the demo portfolio, everything else needs a session
		r.Group(func(r chi.Router) {
			r.Use(middlewarex.Authenticate(s.authService))

			r.Get("/portfolio", handler(s.getV1Portfolio))
			r.Get("/transactions", handler(s.getV1Transactions))

			r.Route("/skins", func(r chi.Router) {
				r.Get("/", handler(s.getV1Skins))
				r.Post("/", handler(s.postV1Skins))
				r.Get("/{id}", handler(s.getV1Skin))
				r.Patch("/{id}", handler(s.patchV1Skin))
				r.Delete("/{id}", handler(s.deleteV1Skin))
				r.Post("/{id}/sell", handler(s.postV1SkinSell))
				r.Post("/{id}/refresh", handler(s.postV1SkinRefresh))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

// preflight is never reached past CORS; it only makes the route match.
func preflight(w http.ResponseWriter, _ *http.Request) {
	reply.OK(w)
}
