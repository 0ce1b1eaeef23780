package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/banking-tool-gateway/bank/api"
	"github.com/tanpawarit/banking-tool-gateway/bank/store"
	configx "github.com/tanpawarit/banking-tool-gateway/pkg/config"
	_ "github.com/tanpawarit/banking-tool-gateway/pkg/logger/autoload"
)

type Config struct {
	Port string `default:"8000"`
}

func main() {
	cfg := configx.MustNew[Config]("BANK_API")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rest := api.New(store.NewSeeded(), cfg.Port)
	if err := rest.Serve(ctx); err != nil {
		log.Fatal().Err(err).Msg("bank api stopped")
	}
}
