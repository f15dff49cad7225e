package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/config"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
	"event-storefront/internal/storage"
)

type sampleEvent struct {
	Name        string
	Description string
	Type        string
	City        string
	Venue       string
	Address     string
	DaysAhead   int
	Hour        int
	Capacity    int
	Featured    bool
	Prices      map[models.TicketCategory]string
}

var sampleEvents = []sampleEvent{
	{
		Name:        "Harare International Festival of the Arts",
		Description: "Six days of theatre, music and dance from across Africa and beyond.",
		Type:        "Festival",
		City:        "Harare",
		Venue:       "Harare Gardens",
		Address:     "Park Lane",
		DaysAhead:   45,
		Hour:        10,
		Capacity:    5000,
		Featured:    true,
		Prices:      map[models.TicketCategory]string{models.CategoryStandard: "15", models.CategoryVIP: "40", models.CategoryVVIP: "100"},
	},
	{
		Name:        "Bulawayo Derby",
		Description: "Highlanders host Dynamos in the season's biggest fixture.",
		Type:        "Sports",
		City:        "Bulawayo",
		Venue:       "Barbourfields Stadium",
		Address:     "Luveve Road",
		DaysAhead:   20,
		Hour:        15,
		Capacity:    25000,
		Prices:      map[models.TicketCategory]string{models.CategoryStandard: "5", models.CategoryVIP: "20"},
	},
	{
		Name:        "Jazz Night at the HICC",
		Description: "An evening with the country's finest jazz ensembles.",
		Type:        "Concert",
		City:        "Harare",
		Venue:       "HICC",
		Address:     "Pennefather Avenue",
		DaysAhead:   12,
		Hour:        19,
		Capacity:    1200,
		Featured:    true,
		Prices:      map[models.TicketCategory]string{models.CategoryStandard: "25", models.CategoryVIP: "60"},
	},
	{
		Name:        "Victoria Falls Tech Summit",
		Description: "Two days of talks and workshops on fintech, agritech and AI.",
		Type:        "Conference",
		City:        "Victoria Falls",
		Venue:       "Elephant Hills Resort",
		Address:     "Park Way",
		DaysAhead:   60,
		Hour:        9,
		Capacity:    800,
		Prices:      map[models.TicketCategory]string{models.CategoryStandard: "120", models.CategoryVIP: "250"},
	},
	{
		Name:        "Mutare Comedy Club",
		Description: "Stand-up from the east's funniest voices.",
		Type:        "Comedy",
		City:        "Mutare",
		Venue:       "Queens Hall",
		Address:     "Herbert Chitepo Street",
		DaysAhead:   8,
		Hour:        20,
		Capacity:    300,
		Prices:      map[models.TicketCategory]string{models.CategoryStandard: "10"},
	},
}

func (s sampleEvent) form(now time.Time) models.EventForm {
	form := models.NewEventForm()
	form.Name = s.Name
	form.Description = s.Description
	form.Type = s.Type
	form.City = s.City
	form.Venue = s.Venue
	form.Address = s.Address
	day := now.AddDate(0, 0, s.DaysAhead)
	form.DateTime = time.Date(day.Year(), day.Month(), day.Day(), s.Hour, 0, 0, 0, time.UTC).Format("2006-01-02T15:04")
	form.Capacity = strconv.Itoa(s.Capacity)
	form.IsPromotion = strconv.FormatBool(s.Featured)
	for category, price := range s.Prices {
		form.Prices[category] = price
	}
	return form
}

// seed creates every sample event and returns how many were created.
func seed(ctx context.Context, admin *services.AdminEventService, out io.Writer, now time.Time) (int, error) {
	created := 0
	for _, sample := range sampleEvents {
		event, err := admin.Create(ctx, sample.form(now))
		if err != nil {
			return created, fmt.Errorf("failed to create %q: %w", sample.Name, err)
		}
		created++
		fmt.Fprintf(out, "Created event %d: %s\n", event.ID, event.Name)
	}
	return created, nil
}

func main() {
	username := flag.String("username", "admin", "Admin username")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "Admin password (or SEED_ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger := cfg.NewLogger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	auth := services.NewAuthService(client, storage.NewMemoryStore(), logger)
	user, err := auth.Login(ctx, models.LoginRequest{Username: *username, Password: *password})
	if err != nil {
		log.Fatal("Failed to log in:", err)
	}
	fmt.Printf("Seeding events at %s as %s\n", client.BaseURL(), user.FullName())

	n, err := seed(ctx, services.NewAdminEventService(auth.Client(ctx)), os.Stdout, time.Now())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Seeded %d events\n", n)
}
