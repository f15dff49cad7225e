package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/config"
	"event-storefront/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger := cfg.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	fmt.Println("Checking Events at", client.BaseURL())

	page, err := client.ListEvents(ctx, 0, 1)
	if err != nil {
		log.Fatal("Failed to list events:", err)
	}
	fmt.Printf("Total Events: %d\n", page.TotalElements)

	featured, err := client.FilterEvents(ctx, models.EventFilter{IsPromotion: "true", Size: 1})
	if err != nil {
		log.Fatal("Failed to count featured events:", err)
	}
	fmt.Printf("Featured Events: %d\n", featured.TotalElements)
}
