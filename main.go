package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/broker"
	"github.com/mcmanyika/Musika/commodities"
	"github.com/mcmanyika/Musika/config"
	"github.com/mcmanyika/Musika/controllers"
	"github.com/mcmanyika/Musika/cron"
	"github.com/mcmanyika/Musika/db"
	"github.com/mcmanyika/Musika/fulfillment"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
	"github.com/mcmanyika/Musika/oauth"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/routes"
	"github.com/mcmanyika/Musika/shared"
	"github.com/mcmanyika/Musika/storage"
	"github.com/redis/go-redis/v9"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "github.com/mcmanyika/Musika/docs"
)

//	@title			Musika Marketplace
//	@version		1.0
//	@description	Produce marketplace: yields, offers, transport bids, deals and ratings.

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db.Init(cfg)

	if err := middlewares.InitAuth(cfg); err != nil {
		log.Fatalf("Failed to set up authentication: %v", err)
	}

	store, err := storage.NewLocal(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		log.Fatalf("Failed to set up object storage: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub()
	defer hub.Close()

	switch cfg.RealtimeDriver {
	case config.RealtimeStomp:
		if err := broker.Connect(cfg.BrokerNetwork, cfg.BrokerHost, cfg.BrokerUser, cfg.BrokerPassword); err != nil {
			log.Fatalf("%v", err)
		}
		defer broker.Disconnect()
		hub.SetRelay(broker.ChangeRelay{})
	case config.RealtimeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		relay := realtime.NewRedisRelay(client, cfg.RedisChannel)
		if err := relay.Listen(ctx, hub); err != nil {
			log.Fatalf("%v", err)
		}
		hub.SetRelay(relay)
	}

	svc := market.NewService(db.DB,
		market.WithUploader(store),
		market.WithPublisher(hub),
	)

	marketBoard := board.New(svc)
	if err := marketBoard.Refresh(ctx); err != nil {
		log.Warnf("Initial board load failed: %v", err)
	}
	marketBoard.Attach(hub)
	defer marketBoard.Detach()

	sources := []commodities.Source{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := commodities.NewGeminiSource(ctx, cfg.GeminiAPIKey, cfg.GeminiModels)
		if err != nil {
			log.Warnf("Gemini price feed disabled: %v", err)
		} else {
			defer gemini.Close()
			sources = append(sources, gemini)
		}
	}
	sources = append(sources, commodities.NewSeedSource())
	feed := commodities.NewFeed(db.DB, hub, sources...)

	var syncer cron.StatusSyncer
	if cfg.Fulfillment.Enabled() {
		tokens := oauth.NewOAuthClient(oauth.ClientConfig{
			TokenURL:     cfg.Fulfillment.TokenURL,
			ClientID:     cfg.Fulfillment.ClientID,
			ClientSecret: cfg.Fulfillment.ClientSecret,
			HTTPClient:   shared.HttpClient(cfg.IgnoreSSLCerts),
		})
		syncer = fulfillment.NewSyncer(cfg.Fulfillment.BaseURL, tokens, svc, cfg.IgnoreSSLCerts)
	}

	scheduler, err := cron.StartScheduler(cron.Options{
		CommoditySpec: cfg.CommodityCron,
		SyncEvery:     time.Duration(cfg.Fulfillment.SyncMinutes) * time.Minute,
	}, feed, syncer)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	if broker.Connected() {
		if err := broker.StartListeners(svc, hub); err != nil {
			log.Fatalf("Failed to start broker listeners: %v", err)
		}
	}

	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})

	routes.SetupRoutes(app, routes.Deps{
		Service:     svc,
		Board:       marketBoard,
		Commodities: feed,
	})

	app.Get("/health", controllers.Health(marketBoard))

	app.Static("/storage", store.Dir())
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("Shutdown failed: %v", err)
		}
	}()

	log.Infof("Swagger UI available at http://localhost%s/swagger/index.html", cfg.ListenPath)
	if err := app.Listen(cfg.ListenPath); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}
