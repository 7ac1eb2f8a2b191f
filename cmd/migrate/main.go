// Command migrate applies the database schema without starting the server.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"taskboss/logger"
	"taskboss/repository"
	"taskboss/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	path := flag.String("db", utils.GetEnvAsString("DATABASE_PATH", "taskboss.db"), "SQLite database file")
	flag.Parse()

	appLog, err := logger.New(utils.GetEnvAsString("LOG_MODE", "development"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.Connect(*path)
	if err != nil {
		appLog.Fatal("open database", "path", *path, "error", err)
	}
	defer db.Close()

	res, err := repository.Migrate(ctx, db)
	if err != nil {
		appLog.Fatal("migration failed", "path", *path, "error", err)
	}
	if res.AddedTaskDescription {
		appLog.Info("added tasks.description column", "path", *path)
	}
	appLog.Info("migration complete", "path", *path)
}
