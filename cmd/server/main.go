package main

import (
	"log"

	_ "goaltracker/docs"
	"goaltracker/internal/config"
	"goaltracker/internal/server"
)

// @title           Goal Tracker API
// @version         1.0
// @description     API for tracking goals on shared boards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
