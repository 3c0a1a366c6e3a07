// Command import_airports loads the OpenFlights airports.dat file into the
// locations table. Rows already present are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/db"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/models/dtos"
)

func main() {
	file := flag.String("file", "", "path to a local airports.dat")
	url := flag.String("url", "", "download airports.dat from this URL (defaults to AIRPORTS_URL)")
	migrate := flag.Bool("migrate", true, "apply pending migrations first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logging.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := db.InitPostgres(cfg.Postgres); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.DB.Close()

	if *migrate {
		if err := db.Migrate(ctx, db.DB.DB); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	ormDB, err := db.InitPostgresORM(db.DB.DB)
	if err != nil {
		log.Fatalf("gorm: %v", err)
	}

	loader := common.NewAirportLoaderService(ormDB, &http.Client{Timeout: 2 * time.Minute}, nil)

	var resp dtos.AirportSyncResponse
	switch {
	case *file != "":
		resp, err = loader.LoadFromFile(ctx, *file)
	case *url != "":
		resp, err = loader.LoadFromURL(ctx, *url)
	default:
		resp, err = loader.LoadFromURL(ctx, cfg.AirportsURL)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d airports, inserted %d new rows\n", resp.Parsed, resp.Inserted)
}
