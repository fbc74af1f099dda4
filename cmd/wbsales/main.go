package main

import (
	"log"

	"github.com/iurnickita/wbsales/internal/auth"
	"github.com/iurnickita/wbsales/internal/config"
	"github.com/iurnickita/wbsales/internal/handler"
	"github.com/iurnickita/wbsales/internal/importer"
	"github.com/iurnickita/wbsales/internal/logger"
	"github.com/iurnickita/wbsales/internal/service"
	"github.com/iurnickita/wbsales/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.GetConfig()

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}
	defer zaplog.Sync()

	store, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	journal := logger.NewJournal(cfg.Importer.LogsDir, nil)
	importer, err := importer.NewImporter(cfg.Importer, store, zaplog, journal)
	if err != nil {
		return err
	}

	auth := auth.NewAuth(cfg.Token, store, zaplog)
	service := service.NewService(cfg.Service, store, importer, zaplog)

	return handler.Serve(cfg.Handler, auth, service, zaplog)
}
