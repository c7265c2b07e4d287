// Development entry point: serves frontend assets from disk so UI edits do
// not require re-embedding.
package main

import (
	"log"

	"video-transcriber/internal/bootstrap"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("bootstrap app: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}
