package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var noRedis bool
	flag.BoolVar(&noRedis, "no-redis", false, "skip the redis container")
	flag.Parse()

	usage := `
Run a throwaway Postgres (and Redis) for local development.
Prints the .env lines that point the server at them, then waits for a signal.

Usage:

testcontainers [-h] [-no-redis] [-f ENV_FILE_PATH]

ENV_FILE_PATH: optional .env file, used for POSTGRES_IMAGE and REDIS_IMAGE

example
  testcontainers -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	containers, err := testutil.StartContainers(context.Background(), nil, !noRedis)
	if err != nil {
		log.Fatalf("Failed to create test containers: %v\n", err)
	}
	for _, line := range containers.EnvLines() {
		fmt.Println(line)
	}

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	containers.Terminate(nil)
}
