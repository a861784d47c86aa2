package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/booking"
	"github.com/iliyamo/unihub-club-events/internal/config"
	"github.com/iliyamo/unihub-club-events/internal/database"
	"github.com/iliyamo/unihub-club-events/internal/handler"
	"github.com/iliyamo/unihub-club-events/internal/mailer"
	"github.com/iliyamo/unihub-club-events/internal/middleware"
	"github.com/iliyamo/unihub-club-events/internal/queue"
	"github.com/iliyamo/unihub-club-events/internal/repository"
	"github.com/iliyamo/unihub-club-events/internal/router"
	"github.com/iliyamo/unihub-club-events/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	blobs, err := storage.NewBlobStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUser)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tickets := repository.NewTicketRepo(db)
	posters := repository.NewPosterRepo(db)
	clubs := repository.NewClubRepo(db)
	events := repository.NewEventRepo(db)
	eventReqs := repository.NewEventRequestRepo(db)
	posts := repository.NewPostRepo(db)

	bookingSvc := booking.NewService(tickets)

	authH := handler.NewAuthHandler(cfg, users, tokens, mail)
	ticketH := handler.NewTicketHandler(bookingSvc, tickets, posters, blobs)
	posterH := handler.NewPosterHandler(posters, blobs)
	clubH := handler.NewClubHandler(clubs)
	eventH := handler.NewEventHandler(events)
	eventReqH := handler.NewEventRequestHandler(eventReqs)
	postH := handler.NewPostHandler(posts)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting; fails open when redis is absent.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, posterH, clubH, eventH, postH)
	router.RegisterStudent(e, ticketH, postH, cfg.JWTSecret)
	router.RegisterHead(e, posterH, clubH, eventH, ticketH, eventReqH, cfg.JWTSecret)
	router.RegisterAdmin(e, eventReqH, authH, cfg.JWTSecret)

	// Serve uploaded payment proofs and poster images.
	e.Static("/uploads", blobs.Dir())

	// Background consumer logging approved tickets; reconnects forever.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
