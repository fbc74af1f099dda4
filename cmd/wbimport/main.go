// wbimport загружает все выгрузки из каталога приема и печатает итог.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iurnickita/wbsales/internal/config"
	"github.com/iurnickita/wbsales/internal/importer"
	"github.com/iurnickita/wbsales/internal/logger"
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

	importer, err := importer.NewImporter(cfg.Importer, store, zaplog, logger.NewJournal(cfg.Importer.LogsDir, nil))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := importer.ProcessAll(ctx)
	for _, res := range summary.Details {
		if res.Error != "" {
			fmt.Printf("%s: %s\n", res.File, res.Error)
		}
	}
	fmt.Printf("Processed: %d\n", summary.Processed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	if ctx.Err() != nil {
		fmt.Println("Interrupted: remaining files are left in", cfg.Importer.ImportDir)
	}
	return nil
}
