// The providers form skips the address and lets the user pick which
// installers may contact them.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/solarutah/solarform/solarform"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v", err)
	}
	config, err := solarform.LoadConfig("providers", os.Getenv("SOLARFORM_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	srv, err := solarform.NewService(config)
	if err != nil {
		log.Fatal(err)
	}
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
	defer srv.Stop()
	srv.WaitForInterrupt()
}
