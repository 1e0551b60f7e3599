package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/plantops/plantops/pkg/app"
	"github.com/plantops/plantops/services/transfer/application/handlers"
	appsvcs "github.com/plantops/plantops/services/transfer/application/services"
)

// TransferRoutes registers transfer endpoints on the provided chi router.
func TransferRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", handlers.NewPostTransferHandler(svcs).Execute)
			r.Get("/", handlers.NewGetTransfersHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetTransferHandler(svcs).Execute)
			r.Post("/{id}/approve", handlers.NewApproveTransferHandler(svcs).Execute)
			r.Post("/{id}/reject", handlers.NewRejectTransferHandler(svcs).Execute)
			r.Post("/{id}/cancel", handlers.NewCancelTransferHandler(svcs).Execute)
			r.Post("/{id}/complete", handlers.NewCompleteTransferHandler(svcs).Execute)
		})
		r.Route("/groups", func(r chi.Router) {
			r.Get("/", handlers.NewGetGroupsHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetGroupHandler(svcs).Execute)
		})
		r.Route("/materials", func(r chi.Router) {
			r.Post("/{materialNumber}/adjust", handlers.NewAdjustMaterialHandler(svcs).Execute)
		})
	})
}
