package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/jack-barr3tt/pex-formatter/src/http-api/api"
)

// 64MB covers the largest working timetable exports
const bodyLimit = 64 << 20

func main() {
	cfg, err := config.Load(os.Getenv("PEX_CONFIG"))
	if err != nil {
		utils.InitLogger("")
		utils.GetLogger().Fatalw("failed to load config", "error", err)
	}

	utils.InitLogger(cfg.LogLevel)
	defer utils.SyncLogger()
	log := utils.GetLogger()

	app := fiber.New(fiber.Config{BodyLimit: bodyLimit})

	app.Use(func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Set("X-Request-ID", id)

		err := c.Next()

		if path := c.Path(); path != "/health" && path != "/metrics" {
			log.Infow("request", "id", id, "method", c.Method(), "path", path, "status", c.Response().StatusCode())
		}
		return err
	})

	app.Use(cors.New())

	server, closeServer, err := api.NewServer(context.Background(), cfg, log)
	if err != nil {
		log.Fatalw("failed to start http api server", "error", err)
		return
	}
	defer closeServer()

	api.RegisterRoutes(app, server)

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Errorw("fiber listen failed", "error", err)
	}
}
