package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"helpbot/pkg/agent"
	"helpbot/pkg/channels"
	_ "helpbot/pkg/channels/autoload" // Register channel factories
	"helpbot/pkg/config"
	"helpbot/pkg/gateway"
	"helpbot/pkg/handler"
	"helpbot/pkg/llm"
	_ "helpbot/pkg/llm/autoload" // Register LLM providers
	"helpbot/pkg/monitor"
)

func main() {
	monitor.Startup()

	// --- 0. Configuration ---
	cfg, sysCfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	monitor.SetupSlog(sysCfg.LogLevel)
	store := config.NewStore(sysCfg)

	// --- 1. LLM client ---
	client, err := llm.NewFromConfig(cfg.LLM, sysCfg)
	if err != nil {
		log.Fatalf("Failed to init LLM client: %v", err)
	}

	// --- 2. Agent engine and handler ---
	engine := agent.NewEngine(client, store, cfg.BotName)
	chatHandler := handler.NewChatHandler(engine)

	// --- 3. Gateway ---
	gw, err := gateway.NewGatewayBuilder().
		WithMonitor(monitor.NewCLIMonitor()).
		WithChannel(channels.LoadFromConfig(cfg.Channels, sysCfg)...).
		WithHandler(chatHandler).
		Build()
	if err != nil {
		log.Fatalf("Failed to build gateway: %v", err)
	}

	// --- 4. Hot reload of system settings ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloadCh := config.WatchConfig(ctx, "system.json")
	go func() {
		for range reloadCh {
			newSys := config.LoadSystemConfig("system.json")
			store.ReplaceSystem(newSys)
			monitor.SetupSlog(newSys.LogLevel)
		}
	}()

	// --- 5. Wait for shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal. Stopping services...")
	gw.StopAll()
	log.Println("Bye!")
}
