package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"assetapi/internal/service"
)

// Pinger reports document store reachability. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// FiberConfig returns the app configuration shared by main and tests.
// bodyLimit must exceed the largest asset ceiling plus multipart overhead.
func FiberConfig(bodyLimit int) fiber.Config {
	return fiber.Config{
		AppName:      "assetapi",
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler(),
	}
}

// RegisterRoutes attaches the resource and probe routes to the provided Fiber app.
// Asset routes are mounted under the collection name of each service's kind.
func RegisterRoutes(app *fiber.App, store Pinger, sprites, audio service.AssetService, scores service.ScoreService) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	for _, svc := range []service.AssetService{sprites, audio} {
		base := "/" + svc.Kind().Collection
		app.Post(base, CreateAsset(svc))
		app.Get(base, ListAssets(svc))
		app.Put(base+"/:id", ReplaceAsset(svc))
		app.Delete(base+"/:id", DeleteAsset(svc))
	}

	app.Post("/scores", CreateScore(scores))
	app.Get("/scores", ListScores(scores))
	app.Put("/scores/:id", ReplaceScore(scores))
	app.Delete("/scores/:id", DeleteScore(scores))
}

// idParam copies the :id route parameter out of the request buffer, which
// fasthttp reuses once the handler returns. Services keep the value in spans.
func idParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}
