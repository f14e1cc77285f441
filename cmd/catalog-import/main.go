// Command catalog-import pushes brands and products described in a YAML
// manifest into a running admin API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/alcotrade/alcotrade-cms/pkg/cmsclient"
	"github.com/alcotrade/alcotrade-cms/pkg/env"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	manifestPath := flag.String("manifest", "catalog.yaml", "path to the YAML manifest")
	apiURL := flag.String("api", env.Get("ALCOTRADE_API_URL", "http://localhost:8080"), "admin API base url")
	email := flag.String("email", env.Get("ALCOTRADE_IMPORT_EMAIL", ""), "admin login email")
	password := flag.String("password", env.Get("ALCOTRADE_IMPORT_PASSWORD", ""), "admin login password")
	token := flag.String("token", env.Get("ALCOTRADE_IMPORT_TOKEN", ""), "access token, skips login")
	flag.Parse()

	logg := logger.New(logger.Options{
		ServiceName: "alcotrade-catalog-import",
		Level:       logger.ParseLevel(env.Get("ALCOTRADE_LOG_LEVEL", "info")),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"manifest": *manifestPath, "api": *apiURL})

	f, err := os.Open(*manifestPath)
	if err != nil {
		logg.Error(ctx, "catalog_import.manifest.open_failed", err)
		os.Exit(1)
	}
	manifest, err := decodeManifest(f)
	_ = f.Close()
	if err != nil {
		logg.Error(ctx, "catalog_import.manifest.invalid", err)
		os.Exit(1)
	}

	client, err := cmsclient.New(*apiURL, cmsclient.WithToken(*token))
	if err != nil {
		logg.Error(ctx, "catalog_import.client_failed", err)
		os.Exit(1)
	}
	if *token == "" {
		if err := client.Login(ctx, *email, *password); err != nil {
			logg.Error(ctx, "catalog_import.login_failed", err)
			os.Exit(1)
		}
	}

	sum, err := newImporter(client, filepath.Dir(*manifestPath), logg).Run(ctx, manifest)
	fmt.Printf("brands created: %d, reused: %d, products: %d, images: %d\n",
		sum.BrandsCreated, sum.BrandsReused, sum.Products, sum.Images)
	if err != nil {
		logg.Error(ctx, "catalog_import.failed", err)
		os.Exit(1)
	}
}
