package main

import (
	"log"
	"net/http"
	"os"

	"crescita/internal/config"
	"crescita/internal/serverapp"
)

func main() {
	cfg, err := config.Load("crescita_config.yml")
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("load config: %v", err)
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:  cfg,
		DataDir: cfg.Storage.DataDir,
		Logger:  log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
