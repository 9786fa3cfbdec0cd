package main

import (
	"log"
	"net/http"
	"os"

	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/config"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/logger"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/middleware"
	"github.com/Tour-shop-Logistique/Backend-Tour-Shop/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + port()
	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
