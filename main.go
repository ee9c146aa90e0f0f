package main

import (
	"fmt"
	"log"
	"net/http"

	"nestegg/internal/config"
	"nestegg/internal/database"
)

func main() {
	fmt.Println("Starting Nestegg backend server...")

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(config.Get()))
	if err != nil {
		log.Fatalf("Failed to create database manager: %v", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "message": "Nestegg API is running"}`))
	})

	log.Println("Server is running on port 8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
