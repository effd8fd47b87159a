package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/Adina012/multifid-1d-nmr-plot/internal/api/handlers"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/config"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/rendering"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/repository"
	"github.com/Adina012/multifid-1d-nmr-plot/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(router *chi.Mux, api huma.API, s3Service storage.S3Service, renderRepo repository.RenderRepository, renderSvc rendering.RenderService, renderCfg config.RenderConfig) {
	renderHandler := handlers.NewRenderHandler(renderRepo, s3Service, renderSvc, renderCfg)

	huma.Register(api, huma.Operation{
		OperationID: "createRender",
		Method:      http.MethodPost,
		Path:        "/api/renders",
		Summary:     "Create a new render job",
		Description: "Creates a render job and returns a pre-signed upload URL per data file",
		Tags:        []string{"Render"},
	}, renderHandler.CreateRender)

	huma.Register(api, huma.Operation{
		OperationID: "startRender",
		Method:      http.MethodPost,
		Path:        "/api/renders/{id}/process",
		Summary:     "Start rendering",
		Description: "Starts rendering the uploaded spectrum data files",
		Tags:        []string{"Render"},
	}, renderHandler.StartRender)

	huma.Register(api, huma.Operation{
		OperationID: "getRenderStatus",
		Method:      http.MethodGet,
		Path:        "/api/renders/{id}/status",
		Summary:     "Get render status",
		Description: "Returns the current status and progress of a render job",
		Tags:        []string{"Render"},
	}, renderHandler.GetRenderStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getFigure",
		Method:      http.MethodGet,
		Path:        "/api/renders/{id}/figure",
		Summary:     "Get rendered figure",
		Description: "Returns a download URL for the rendered figure plus per-spectrum metadata",
		Tags:        []string{"Render"},
	}, renderHandler.GetFigure)
}
