package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"halflips/internal/config"
	"halflips/internal/db"
	apperrors "halflips/internal/errors"
	"halflips/internal/logging"
	"halflips/internal/repository"
	"halflips/internal/service"
)

// SeedUser is one entry of the seed document.
type SeedUser struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio"`
	Birthdate   string   `json:"birthdate"` // YYYY-MM-DD
	Posts       []string `json:"posts"`
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting seed script")

	if cfg.SeedSource == "" {
		log.Fatal("SEED_SOURCE must name a JSON file or an http(s) URL")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Info("database migrations completed")

	log.Infof("loading seed data from %s", cfg.SeedSource)
	users, err := loadSeedData(cfg.SeedSource)
	if err != nil {
		log.Fatalf("failed to load seed data: %v", err)
	}
	log.Infof("loaded %d users", len(users))

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, nil, log)
	userService := service.NewUserService(userRepo, nil)
	postService := service.NewPostService(repository.NewPostRepository(gormDB))

	ctx := context.Background()
	created, skipped := 0, 0
	for _, item := range users {
		entry := log.WithField("username", item.Username)

		user, err := authService.Register(ctx, item.Username, item.Password, nil)
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			entry.Info("user exists, skipping")
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("register %s: %v", item.Username, err)
		}

		if item.DisplayName != "" || item.Bio != "" {
			if _, err := userService.UpdateProfile(ctx, user, service.ProfileUpdate{
				DisplayName: item.DisplayName,
				Bio:         item.Bio,
			}); err != nil {
				log.Fatalf("update profile %s: %v", item.Username, err)
			}
		}

		if item.Birthdate != "" {
			setBirthdate(ctx, entry, userRepo, user.ID, item.Birthdate)
		}

		for _, content := range item.Posts {
			if _, err := postService.Create(ctx, content, user); err != nil {
				entry.Warnf("skipping post: %v", err)
			}
		}
		created++
	}

	log.Infof("seed completed: %d users created, %d skipped", created, skipped)
}

func setBirthdate(ctx context.Context, log logrus.FieldLogger, repo repository.UserRepository, userID uint, value string) {
	birthdate, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Warnf("skipping invalid birthdate %q", value)
		return
	}
	if _, err := repo.Update(ctx, userID, repository.ProfileFields{Birthdate: &birthdate}); err != nil {
		log.Fatalf("set birthdate: %v", err)
	}
}

func loadSeedData(source string) ([]SeedUser, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err := fetch(source)
		if err != nil {
			return nil, err
		}
		body = data
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		body = data
	}

	var users []SeedUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
