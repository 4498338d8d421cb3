// The general form asks for the street address and a single blanket consent
// to be contacted.
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
	config, err := solarform.LoadConfig("general", os.Getenv("SOLARFORM_CONFIG"))
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
