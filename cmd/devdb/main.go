// main.go
//
// Runs a throwaway MariaDB container for local development, printing
// connection coordinates and holding it until interrupted.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sjafferali/meditrack/tests/helpers"
)

func main() {
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to an optional .env file")
	flag.Parse()

	if envFilename != "" {
		log.Printf("Loading environment variables from %s", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	db, err := helpers.StartMariaDB(nil)
	if err != nil {
		log.Fatalf("Failed to start dev database: %v", err)
	}

	cfg := db.Config()
	fmt.Printf("DB_TYPE=%s\n", cfg.DBType)
	fmt.Printf("DB_HOST=%s\n", cfg.DBHost)
	fmt.Printf("DB_PORT=%s\n", cfg.DBPort)
	fmt.Printf("DB_DATABASE=%s\n", cfg.DBDatabase)
	fmt.Printf("DB_USER=%s\n", cfg.DBUser)
	fmt.Printf("DB_PASSWORD=%s\n", cfg.DBPassword)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	log.Printf("Received signal: %v, terminating dev database...", sig)
	db.Terminate(nil)
}
