// Command server runs the threshold e-voting core's HTTP API.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/thresholdvote/core/api"
	"github.com/thresholdvote/core/authority"
	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/config"
	"github.com/thresholdvote/core/log"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/storage/db"
	"github.com/thresholdvote/core/storage/db/metadb"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	log.Init(cfg.LogLevel, "stderr", nil)

	database, err := metadb.New(db.TypePebble, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database at %s: %v", cfg.DatabasePath, err)
	}
	defer database.Close()

	store := storage.New(database)

	auth, err := authority.Load(cfg.AuthorityKeyPath, cfg.Debug)
	if err != nil {
		log.Fatalf("load authority keypair: %v", err)
	}

	var chain *bulletin.Chain
	if cfg.BulletinServiceURL != "" {
		chain = bulletin.NewWithClient(store, bulletin.NewHTTPClient(cfg.BulletinServiceURL))
	} else {
		chain = bulletin.New(store)
	}

	if _, err := api.New(&api.APIConfig{
		Host:                     cfg.HTTPHost,
		Port:                     cfg.HTTPPort,
		AllowedOrigins:           cfg.AllowedOrigins,
		Storage:                  store,
		Authority:                auth,
		Chain:                    chain,
		AllowDirectTokenIssuance: cfg.Debug,
	}); err != nil {
		log.Fatalf("start API server: %v", err)
	}

	log.Infow("server running", "host", cfg.HTTPHost, "port", cfg.HTTPPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Infow("shutting down")
}
