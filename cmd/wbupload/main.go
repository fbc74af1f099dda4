// wbupload отправляет одну или две выгрузки на сервер и печатает итог загрузки.
//
//	wbupload -a localhost:8080 -u manager -p secret orders.xlsx sales.xlsx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iurnickita/wbsales/internal/uploadclient"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	serverAddr := flag.String("a", envOr("RUN_ADDRESS", "localhost:8080"), "server address")
	login := flag.String("u", os.Getenv("WBSALES_LOGIN"), "login")
	password := flag.String("p", os.Getenv("WBSALES_PASSWORD"), "password")
	runAll := flag.Bool("all", false, "process every file in the server import directory")
	timeout := flag.Duration("t", 5*time.Minute, "request timeout")
	flag.Parse()

	if !*runAll && (flag.NArg() < 1 || flag.NArg() > 2) {
		return fmt.Errorf("usage: %s [flags] orders.xlsx [sales.xlsx]", os.Args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := uploadclient.NewUploadClient(*serverAddr)
	if err := client.Login(ctx, *login, *password); err != nil {
		return err
	}

	var err error
	var summary any
	if *runAll {
		summary, err = client.RunImport(ctx)
	} else {
		summary, err = client.Upload(ctx, flag.Args()...)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
