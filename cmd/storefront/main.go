package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/checkout"
	"event-storefront/internal/config"
	"event-storefront/internal/database"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
	"event-storefront/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// shellFrom opens the local database and builds a Shell for the command.
func shellFrom(c *cli.Context) (*Shell, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	if !c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.WarnLevel)
	}

	db, err := database.NewConnection(database.Config{Path: c.String("db")}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, err
	}
	kv := storage.Scope(storage.NewSQLStore(db.DB), c.String("device"))

	baseURL := c.String("api")
	if baseURL == "" {
		baseURL = cfg.API.BaseURL
	}
	client := api.NewClient(baseURL, cfg.API.Timeout, logger)

	mode := cfg.Purchase.Mode
	var stub *services.StubPurchaser
	if c.Bool("stub") {
		mode = "stub"
	}
	if mode == "stub" {
		stub = services.NewStubPurchaser(cfg.Purchase.StubDelay,
			services.RandomDecider(cfg.Purchase.SuccessRate, time.Now().UnixNano()), logger)
	}

	shell := NewShell(kv, client, services.NewPurchaserFactory(mode, stub), cfg.Purchase.Timeout, logger, c.App.Writer)
	return shell, func() { db.Close() }, nil
}

// withShell adapts a Shell method to a cli action.
func withShell(fn func(c *cli.Context, s *Shell) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, done, err := shellFrom(c)
		if err != nil {
			return err
		}
		defer done()
		return fn(c, s)
	}
}

func idArg(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: event id %q", models.ErrInvalidInput, c.Args().First())
	}
	return id, nil
}

func categoryArg(c *cli.Context) (models.TicketCategory, error) {
	category := models.TicketCategory(strings.ToUpper(c.Args().First()))
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownCategory, c.Args().First())
	}
	return category, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "storefront",
		Usage: "Browse events and buy tickets from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "ticketing backend base URL", EnvVars: []string{"API_BASE_URL"}},
			&cli.StringFlag{Name: "db", Value: "storefront-cli.db", Usage: "local state file", EnvVars: []string{"SQLITE_PATH"}},
			&cli.StringFlag{Name: "device", Value: "cli", Usage: "device name; each keeps its own cart and login"},
			&cli.BoolFlag{Name: "stub", Usage: "simulate purchases instead of calling the backend"},
			&cli.BoolFlag{Name: "verbose", Usage: "show log output"},
		},
		Commands: []*cli.Command{
			{
				Name:  "events",
				Usage: "browse events",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list events",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "page", Value: 1},
							&cli.StringFlag{Name: "name"},
							&cli.StringFlag{Name: "city"},
							&cli.StringFlag{Name: "type"},
							&cli.BoolFlag{Name: "featured"},
						},
						Action: withShell(func(c *cli.Context, s *Shell) error {
							filter := models.EventFilter{
								Name: c.String("name"),
								City: c.String("city"),
								Type: c.String("type"),
								Page: max(c.Int("page")-1, 0),
								Size: models.BrowsePageSize,
							}
							if c.Bool("featured") {
								filter.IsPromotion = "true"
							}
							return s.ListEvents(c.Context, filter)
						}),
					},
					{
						Name:      "show",
						Usage:     "show one event",
						ArgsUsage: "<event_id>",
						Action: withShell(func(c *cli.Context, s *Shell) error {
							id, err := idArg(c)
							if err != nil {
								return err
							}
							return s.ShowEvent(c.Context, id)
						}),
					},
				},
			},
			{
				Name:  "cart",
				Usage: "manage the cart",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "show the cart",
						Action: withShell(func(c *cli.Context, s *Shell) error { return s.ShowCart(c.Context) }),
					},
					{
						Name:      "select",
						Usage:     "start a cart for an event",
						ArgsUsage: "<event_id>",
						Action: withShell(func(c *cli.Context, s *Shell) error {
							id, err := idArg(c)
							if err != nil {
								return err
							}
							return s.SelectEvent(c.Context, id)
						}),
					},
					{
						Name:      "add",
						Usage:     "add one ticket",
						ArgsUsage: "<category>",
						Action: withShell(func(c *cli.Context, s *Shell) error {
							category, err := categoryArg(c)
							if err != nil {
								return err
							}
							return s.AddTicket(c.Context, category)
						}),
					},
					{
						Name:      "set",
						Usage:     "set a ticket quantity",
						ArgsUsage: "<category> <quantity>",
						Action: withShell(func(c *cli.Context, s *Shell) error {
							category, err := categoryArg(c)
							if err != nil {
								return err
							}
							quantity, err := strconv.Atoi(c.Args().Get(1))
							if err != nil {
								return fmt.Errorf("%w: quantity %q", models.ErrInvalidInput, c.Args().Get(1))
							}
							return s.SetQuantity(c.Context, category, quantity)
						}),
					},
					{
						Name:      "remove",
						Usage:     "remove a ticket category",
						ArgsUsage: "<category>",
						Action: withShell(func(c *cli.Context, s *Shell) error {
							category, err := categoryArg(c)
							if err != nil {
								return err
							}
							return s.RemoveTicket(c.Context, category)
						}),
					},
					{
						Name:   "clear",
						Usage:  "empty the cart",
						Action: withShell(func(c *cli.Context, s *Shell) error { return s.ClearCart(c.Context) }),
					},
				},
			},
			{
				Name:  "checkout",
				Usage: "pay for the cart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "customer name"},
					&cli.StringFlag{Name: "email", Usage: "customer email"},
					&cli.StringFlag{Name: "mobile", Usage: "mobile number"},
					&cli.StringFlag{Name: "payment", Usage: "ECOCASH, INNBUCKS, ZIMSWITCH or INTERNATIONAL_CARD"},
				},
				Action: withShell(func(c *cli.Context, s *Shell) error {
					return s.Checkout(c.Context, checkout.Form{
						CustomerName:  c.String("name"),
						CustomerEmail: c.String("email"),
						MobileNumber:  c.String("mobile"),
						PaymentMethod: models.PaymentMethod(c.String("payment")),
					})
				}),
			},
			{
				Name:      "login",
				Usage:     "sign in",
				ArgsUsage: "<username>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STOREFRONT_PASSWORD"}},
				},
				Action: withShell(func(c *cli.Context, s *Shell) error {
					return s.Login(c.Context, models.LoginRequest{
						Username: c.Args().First(),
						Password: c.String("password"),
					})
				}),
			},
			{
				Name:   "logout",
				Usage:  "sign out",
				Action: withShell(func(c *cli.Context, s *Shell) error { return s.Logout(c.Context) }),
			},
			{
				Name:   "whoami",
				Usage:  "show the signed-in user",
				Action: withShell(func(c *cli.Context, s *Shell) error { return s.WhoAmI(c.Context) }),
			},
			{
				Name:  "tickets",
				Usage: "list purchased tickets",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "filter", Value: "all", Usage: "all, upcoming or past"},
				},
				Action: withShell(func(c *cli.Context, s *Shell) error {
					return s.Tickets(c.Context, services.ParseTicketFilter(c.String("filter")))
				}),
			},
		},
	}
}
