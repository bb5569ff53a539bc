package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	schema "readum/database"
	"readum/internal/config"
	"readum/internal/database"
	"readum/internal/logger"

	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: migrate [up | down [--all] [-n steps] | version]\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	m, err := database.NewMigrator(db, schema.Migrations, schema.MigrationsDir)
	if err != nil {
		l.Fatal("Failed to open migrations", zap.Error(err))
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			l.Fatal("Migration failed", zap.Int("applied", n), zap.Error(err))
		}
		fmt.Printf("Migrations applied successfully! (%d applied)\n", n)

	case "down":
		fs := flag.NewFlagSet("down", flag.ExitOnError)
		all := fs.Bool("all", false, "roll back every migration")
		steps := fs.Int("n", 1, "number of migrations to roll back")
		_ = fs.Parse(os.Args[2:])

		if *all {
			*steps = 0
		}
		n, err := m.Down(ctx, *steps)
		if err != nil {
			l.Fatal("Rollback failed", zap.Int("rolled_back", n), zap.Error(err))
		}
		if *all {
			fmt.Println("Successfully rolled back all migrations")
		} else {
			fmt.Printf("Successfully rolled back %d migration(s)\n", n)
		}

	case "version":
		v, dirty, err := m.Version(ctx)
		if err != nil {
			l.Fatal("Failed to read version", zap.Error(err))
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)

	default:
		usage()
		os.Exit(2)
	}
}
