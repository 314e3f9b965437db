package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mixing-service/internal/metrics"
	"mixing-service/internal/services"
)

// maxBodySize bounds multipart uploads.
const maxBodySize = 1 << 30

// Dependencies are the services the HTTP API is built on.
type Dependencies struct {
	Users           *services.UserService
	Projects        *services.ProjectService
	Songs           *services.SongService
	Ledger          *services.LedgerService
	Comments        *services.CommentService
	Purchases       *services.PurchaseService
	Files           *services.FileService
	Archives        *services.ArchiveService
	StripePublicKey string
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
}

// NewApp builds the Fiber application with every route registered.
func NewApp(deps Dependencies) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:   "mixing-service",
		BodyLimit: maxBodySize,
	})
	app.Use(RequestLogger(deps.Logger, deps.Metrics))
	RegisterRoutes(app, deps)
	return app
}

// RegisterRoutes mounts the public, customer and staff routes on app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	logger := deps.Logger
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/api/swagger/*", swagger.HandlerDefault)

	auth := Authenticate(deps.Users, logger)
	projects := NewProjectHandler(deps.Projects, logger)
	songs := NewSongHandler(deps.Songs, logger)
	tracks := NewTrackHandler(deps.Ledger, logger)
	comments := NewCommentHandler(deps.Comments, logger)
	purchases := NewPurchaseHandler(deps.Purchases, deps.Ledger, deps.StripePublicKey, logger)
	files := NewFileHandler(deps.Files, logger)
	admin := NewAdminHandler(deps.Projects, deps.Comments, deps.Archives, deps.Purchases, logger, deps.Metrics)

	app.Get("/files/*", auth, files.ServeFile)
	app.Get("/projects/:id/submit", auth, projects.SubmitProject)
	app.Post("/projects/:id/submit", auth, projects.SubmitProject)

	api := app.Group("/api", auth)
	api.Get("/profile", purchases.GetProfile)

	api.Get("/projects", projects.ListProjects)
	api.Get("/projects/:id", projects.GetProject)
	api.Get("/projects/:id/state", projects.GetProjectState)

	api.Get("/songs", songs.ListSongs)
	api.Post("/songs", songs.CreateSong)
	api.Get("/songs/:id", songs.GetSong)
	api.Put("/songs/:id", songs.UpdateSong)
	api.Patch("/songs/:id", songs.UpdateSong)
	api.Delete("/songs/:id", songs.DeleteSong)

	api.Get("/groups", songs.ListGroups)
	api.Post("/groups", songs.CreateGroup)
	api.Get("/groups/:id", songs.GetGroup)
	api.Put("/groups/:id", songs.UpdateGroup)
	api.Patch("/groups/:id", songs.UpdateGroup)
	api.Delete("/groups/:id", songs.DeleteGroup)

	api.Get("/tracks", tracks.ListTracks)
	api.Post("/tracks", tracks.CreateTrack)
	api.Get("/tracks/:id", tracks.GetTrack)
	api.Delete("/tracks/:id", tracks.DeleteTrack)

	api.Get("/comments", comments.ListComments)
	api.Post("/comments", comments.CreateComment)
	api.Get("/comments/:id", comments.GetComment)
	api.Put("/comments/:id", comments.UpdateComment)
	api.Patch("/comments/:id", comments.UpdateComment)
	api.Delete("/comments/:id", comments.DeleteComment)

	api.Get("/purchases", purchases.ListPurchases)
	api.Post("/purchases", purchases.CreatePurchase)

	staff := api.Group("/admin", RequireStaff())
	staff.Get("/projects", admin.Queue)
	staff.Post("/projects", admin.CreateProject)
	staff.Delete("/projects/:id", admin.DeleteProject)
	staff.Put("/projects/:id/status", admin.SetStatus)
	staff.Put("/projects/:id/priority", admin.SetPriority)
	staff.Post("/projects/:id/comments", admin.AddComment)
	staff.Post("/projects/:id/final-files", admin.UploadFinalFile)
	staff.Get("/projects/:id/download", admin.DownloadTracks)
	staff.Delete("/final-files/:id", admin.DeleteFinalFile)
	staff.Get("/purchases", admin.ListPurchases)
}
