package main

import (
	"context"
	"log"

	"github.com/arturpetrov/clinicore/internal/app"
	"github.com/arturpetrov/clinicore/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	a.Run(ctx)
}
