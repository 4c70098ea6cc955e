package main

import (
	"chat-store/internal"
	"chat-store/observability"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

var familyColours = map[string]color.Color{
	"message":        color.FgCyan,
	"server":         color.FgGreen,
	"channel":        color.FgYellow,
	"member":         color.FgMagenta,
	"bot":            color.FgBlue,
	"bot_token":      color.FgGray,
	"bot_owner":      color.FgGray,
	"channel_server": color.FgGray,
}

func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", lo.CoalesceOrEmpty(os.Getenv("BADGER_FILEPATH"), database.DefaultPath), "Path to badger DB")
	prefix := flag.String("prefix", internal.DefaultPrefix, "Prefix to scan, empty for every family")
	limit := flag.Int("limit", 0, "Maximum number of rows, 0 for all")
	serve := flag.Bool("serve", false, "Serve /inspect and /metrics instead of printing")
	port := flag.Int("port", 8081, "Port used with -serve")
	flag.Parse()

	// BypassLockGuard lets the inspector open a store held by a running process
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if *serve {
		logger := logs.GetLoggerFromString(lo.CoalesceOrEmpty(os.Getenv("LOG_LEVEL"), "INFO"))
		registry := prometheus.NewRegistry()
		monitor := observability.NewMonitor(logger, db)
		if _, err = observability.NewRepositoryMetrics(registry, monitor); err != nil {
			log.Fatal(err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		server := internal.StartDebugServer(db, logger, *port, internal.EntityMapper, monitor.AsMap, registry)
		fmt.Printf("Inspector (read-only) at http://localhost:%d/inspect\n", *port)
		<-ctx.Done()
		_ = server.Close()
		return
	}

	rows, err := internal.CollectRows(db, *prefix, internal.EntityMapper, *limit)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Family", "Entity ID", "Parent", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, row := range rows {
		family := row.Family
		if c, ok := familyColours[family]; ok {
			family = c.Sprint(family)
		}
		table.Append([]string{row.Key, family, row.EntityID, row.Parent, row.Detail})
	}
	table.Render()
	fmt.Printf("%d row(s) under %q\n", len(rows), *prefix)
}
