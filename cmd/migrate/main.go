package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/XylonMarkLabs/justpos-backend/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using system environment")
	}

	database.Connect()
	database.Migrate()
}
