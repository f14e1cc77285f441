package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alcotrade/alcotrade-cms/internal/users"
	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/db"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/migrate"
	"github.com/alcotrade/alcotrade-cms/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "alcotrade-seed"})
	_ = godotenv.Load()

	email := flag.String("email", "", "admin email (defaults to "+config.EnvSeedEmail+")")
	password := flag.String("password", "", "admin password (defaults to "+config.EnvSeedPass+")")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "alcotrade-seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	seed := cfg.Seed
	if *email != "" {
		seed.AdminEmail = *email
	}
	if *password != "" {
		seed.AdminPassword = *password
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	admin, err := adminFromSeed(seed, cfg.Password, cfg.Media.DefaultUserImage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx = logg.WithField(ctx, "email", admin.Email)
	if err := users.NewRepository(dbClient.DB()).UpsertAdmin(ctx, admin); err != nil {
		logg.Error(ctx, "seed.admin.failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed.admin.upserted")
}

// adminFromSeed builds the ADMIN row written by the seed command.
func adminFromSeed(seed config.SeedConfig, pw config.PasswordConfig, defaultImage string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	if email == "" || seed.AdminPassword == "" {
		return nil, fmt.Errorf("%s and %s are required", config.EnvSeedEmail, config.EnvSeedPass)
	}
	hash, err := security.HashPassword(seed.AdminPassword, pw)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.RoleAdmin,
	}
	if name := strings.TrimSpace(seed.AdminName); name != "" {
		user.Name = &name
	}
	if defaultImage != "" {
		image := defaultImage
		user.Image = &image
	}
	return user, nil
}
