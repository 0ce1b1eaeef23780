package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/banking-tool-gateway/agent/gateway"
	"github.com/tanpawarit/banking-tool-gateway/agent/mcpserver"
	"github.com/tanpawarit/banking-tool-gateway/agent/tool"
	bankclient "github.com/tanpawarit/banking-tool-gateway/bank/client"
	configx "github.com/tanpawarit/banking-tool-gateway/pkg/config"
	_ "github.com/tanpawarit/banking-tool-gateway/pkg/logger/autoload"
	qstashx "github.com/tanpawarit/banking-tool-gateway/pkg/qstash"
)

type auditConfig struct {
	Enabled bool `default:"false"`
}

func main() {
	mcpCfg := configx.MustNew[mcpserver.Config]("MCP")
	bankCfg := configx.MustNew[bankclient.Config]("BANK_API")

	backend, err := bankclient.Open(*bankCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open bank backend")
	}

	var opts []gateway.Option
	if configx.MustNew[auditConfig]("QSTASH").Enabled {
		qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
		opts = append(opts, gateway.WithAudit(qstashx.MustNew(*qstashCfg), qstashCfg.AuditDestination))
		log.Info().Str("destination", qstashCfg.AuditDestination).Msg("lock audit enabled")
	}

	gw, err := gateway.New(backend, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("build gateway")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := mcpserver.New(tool.NewExecutor(gw), *mcpCfg)
	if err := mcpserver.Serve(ctx, s, *mcpCfg); err != nil {
		log.Fatal().Err(err).Msg("mcp server stopped")
	}
}
