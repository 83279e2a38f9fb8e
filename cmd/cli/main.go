package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yourorg/pixieauth/internal/auth"
	"github.com/yourorg/pixieauth/internal/config"
	"github.com/yourorg/pixieauth/internal/logging"
	"github.com/yourorg/pixieauth/internal/models"
	"github.com/yourorg/pixieauth/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(false, "warn")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	session := &cli{cfg: cfg, logger: logger}
	defer session.close()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== PixieAuth CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed store (create sample user)")
		fmt.Println("3) List users")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		switch strings.TrimSpace(choice) {
		case "1":
			doHealthCheck()
		case "2":
			session.seed()
		case "3":
			session.list()
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:5001"
	}
	url := strings.TrimRight(base, "/") + "/auth/health"

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

// cli opens the configured store lazily and keeps it for the session, so a
// memory store seeded with option 2 can be listed with option 3.
type cli struct {
	cfg    config.Config
	logger *zap.Logger
	users  store.Store
}

func (c *cli) service() (*auth.Service, error) {
	if c.users == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s, err := store.Open(ctx, c.cfg.DB, c.logger)
		if err != nil {
			return nil, err
		}
		c.users = s
		if c.cfg.DB.Driver == config.DriverMemory {
			fmt.Println("Note: DB_DRIVER=memory, data lives only for this CLI session")
		}
	}
	return auth.NewService(c.users, auth.NewBcryptHasher(c.cfg.BcryptCost), auth.UUIDIssuer{}, c.logger), nil
}

func (c *cli) seed() {
	svc, err := c.service()
	if err != nil {
		fmt.Println("Seed: store error:", err)
		return
	}
	res := svc.Register(context.Background(), models.RegisterRequest{
		FirstName:   "Demo",
		LastName:    "User",
		Email:       "demo@example.com",
		Username:    "demo",
		Password:    "demo1234",
		DateOfBirth: "2000-01-01",
	})
	if !res.OK() {
		fmt.Println("Seed:", res.Message)
		return
	}
	fmt.Printf("Seed: created user 'demo' (id %d) with password 'demo1234'\n", res.User.ID)
}

func (c *cli) list() {
	svc, err := c.service()
	if err != nil {
		fmt.Println("List: store error:", err)
		return
	}
	users, err := svc.ListAllUsers(context.Background())
	if err != nil {
		fmt.Println("List: error:", err)
		return
	}
	if len(users) == 0 {
		fmt.Println("No users")
		return
	}
	for _, u := range users {
		fmt.Printf("%4d  %-16s %-24s %s %s\n", u.ID, u.Username, u.Email, u.FirstName, u.LastName)
	}
}

func (c *cli) close() {
	if c.users != nil {
		_ = c.users.Close()
	}
}
