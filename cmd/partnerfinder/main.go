package main

import (
	"log"

	"github.com/MrSnakeDoc/partnerfinder/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ partnerfinder failed: %v", err)
	}
}
