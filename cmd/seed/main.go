// Package main provides a tool to seed the database with a user and demo recipes.
//
// Usage:
//
//	DATA_PATH=~/Tastebase/data go run ./cmd/seed --email admin@example.com --password secret --superuser
//	DATA_PATH=~/Tastebase/data go run ./cmd/seed --email chef@example.com --password secret --demo
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tastebaseapp/tastebase-server/internal/auth"
	"github.com/tastebaseapp/tastebase-server/internal/domain"
	"github.com/tastebaseapp/tastebase-server/internal/id"
	"github.com/tastebaseapp/tastebase-server/internal/store"
	"github.com/tastebaseapp/tastebase-server/internal/store/sqlite"
)

var (
	email     = flag.String("email", "", "Email for the seeded user (required)")
	password  = flag.String("password", "", "Password for the seeded user (required)")
	superuser = flag.Bool("superuser", false, "Grant staff and superuser flags")
	demo      = flag.Bool("demo", false, "Create demo recipes for the user")
)

func main() {
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Tastebase/data")
	}
	dbPath := filepath.Join(dataPath, "tastebase.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := ensureUser(ctx, s, *email, *password, *superuser)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("User ready: %s (%s)\n", user.Email, user.ID)

	if *demo {
		if err := seedRecipes(ctx, s, user.ID); err != nil {
			log.Fatalf("Failed to seed recipes: %v", err)
		}
	}
}

func ensureUser(ctx context.Context, s store.Store, email, password string, super bool) (*domain.User, error) {
	normalized := domain.NormalizeEmail(email)

	if existing, err := s.GetUserByEmail(ctx, normalized); err == nil {
		fmt.Println("User already exists, reusing")
		return existing, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        normalized,
		PasswordHash: hash,
		DisplayName:  "Seeded User",
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedRecipes(ctx context.Context, s store.Store, ownerID string) error {
	demos := []struct {
		title       string
		description string
		price       float64
		minutes     int
		tags        []string
		ingredients []string
	}{
		{
			title:       "Pad Thai",
			description: "Stir-fried rice noodles with tamarind and peanuts",
			price:       12.50,
			minutes:     30,
			tags:        []string{"Thai", "Dinner"},
			ingredients: []string{"Rice Noodles", "Tamarind", "Peanuts"},
		},
		{
			title:       "Shakshuka",
			description: "Eggs poached in spiced tomato sauce",
			price:       8.00,
			minutes:     25,
			tags:        []string{"Breakfast", "Vegetarian"},
			ingredients: []string{"Eggs", "Tomatoes", "Paprika"},
		},
		{
			title:       "Beef Rendang",
			description: "Slow-cooked coconut beef curry",
			price:       18.75,
			minutes:     180,
			tags:        []string{"Indonesian", "Dinner"},
			ingredients: []string{"Beef", "Coconut Milk", "Lemongrass"},
		},
	}

	for _, d := range demos {
		now := time.Now().UTC()
		recipe := &domain.Recipe{
			ID:          id.MustGenerate("recipe"),
			OwnerID:     ownerID,
			Title:       d.title,
			Description: d.description,
			Price:       d.price,
			TimeMinutes: d.minutes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.CreateRecipe(ctx, recipe, d.tags, d.ingredients); err != nil {
			return fmt.Errorf("create %q: %w", d.title, err)
		}
		fmt.Printf("Created recipe: %s\n", d.title)
	}

	return nil
}
