package api

import (
	"net/http"

	"github.com/JaimeStill/bulletin/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		domain.Notices.Handler(runtime.MaxUploadSize).Routes(),
		domain.Complaints.Handler(runtime.MaxUploadSize).Routes(),
		domain.Students.Handler().Routes(),
		domain.Attachments.Routes(),
		domain.Taxonomy.Routes(),
	)
}
