package main

import (
	"log"

	"github.com/wrenfield/curator/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ curator failed to start: %v", err)
	}
}
