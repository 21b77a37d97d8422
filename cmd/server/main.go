package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/afterclass/lesson-booking/internal/config"
	"github.com/afterclass/lesson-booking/internal/database"
	"github.com/afterclass/lesson-booking/internal/handler"
	"github.com/afterclass/lesson-booking/internal/queue"
	"github.com/afterclass/lesson-booking/internal/repository"
	"github.com/afterclass/lesson-booking/internal/router"
	"github.com/afterclass/lesson-booking/internal/service"
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

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	lessons := repository.NewLessonRepo(db)
	orders := repository.NewOrderRepo(db)
	publisher := service.NewOrderPublisher(queue.BrokerURL())

	catalogHandler := handler.NewCatalogHandler(lessons)
	orderHandler := handler.NewOrderHandler(lessons, orders, publisher)
	adminHandler := handler.NewAdminHandler(lessons)

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, catalogHandler, orderHandler, adminHandler, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
