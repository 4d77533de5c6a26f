// Command gammonserver runs the gammon REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/gammon/internal/config"
	"github.com/yourusername/gammon/pkg/ai"
	"github.com/yourusername/gammon/pkg/api"
)

const version = "0.1.0"

func main() {
	host := flag.String("host", "", "Host to bind to (overrides config; use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("gammon API Server v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	val := ai.NewValuation(ai.Weights{
		BearOff:    cfg.Valuation.BearOff,
		Home:       cfg.Valuation.Home,
		Blots:      cfg.Valuation.Blots,
		Blockades:  cfg.Valuation.Blockades,
		Pip:        cfg.Valuation.Pip,
		NormFactor: cfg.Valuation.NormFactor,
	}, cfg.Valuation.CacheSize)

	search := ai.SelectorOptions{
		MinDepth:   cfg.Search.MinDepth,
		MaxDepth:   cfg.Search.MaxDepth,
		Iterations: cfg.Search.Iterations,
		Explore:    cfg.Search.Explore,
	}

	serverConfig := api.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: cfg.Server.MaxFastWorkers,
		MaxSlowWorkers: cfg.Server.MaxSlowWorkers,
	}

	server := api.NewServer(val, search, serverConfig, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
