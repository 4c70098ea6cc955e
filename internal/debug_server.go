package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed inspect.html
var templatesFS embed.FS

const (
	DefaultPrefix = "message:"
	maxRows       = 500
)

type InspectRow struct {
	Key      string `json:"key"`
	Family   string `json:"family"`
	EntityID string `json:"entity_id"`
	Parent   string `json:"parent"`
	Detail   string `json:"detail"`
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// CollectRows maps every record under prefix, at most limit of them when limit is positive.
func CollectRows(db *badger.DB, prefix string, mapper RowMapper, limit int) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if limit > 0 && len(rows) == limit {
				break
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(string(item.Key()), val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// NewDebugHandler serves the inspector page on /inspect, the same rows as JSON
// on /inspect.json and the metrics of gatherer on /metrics.
func NewDebugHandler(db *badger.DB, log *slog.Logger, mapper RowMapper, statsProvider StatsProvider, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	rows := func(r *http.Request) (string, []InspectRow, error) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = DefaultPrefix
		}
		items, err := CollectRows(db, prefix, mapper, maxRows)
		return prefix, items, err
	}

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix, items, err := rows(r)
		if err != nil {
			log.Error("Inspection failed", "prefix", prefix, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data := PageData{Prefix: prefix, Items: items, Stats: make(map[string]any)}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	mux.HandleFunc("/inspect.json", func(w http.ResponseWriter, r *http.Request) {
		prefix, items, err := rows(r)
		if err != nil {
			log.Error("Inspection failed", "prefix", prefix, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	})

	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// StartDebugServer listens on every interface in the background.
// The returned server is used to shut it down.
func StartDebugServer(db *badger.DB, log *slog.Logger, port int, mapper RowMapper, statsProvider StatsProvider, gatherer prometheus.Gatherer) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           NewDebugHandler(db, log, mapper, statsProvider, gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug server stopped", "error", err)
		}
	}()
	return server
}

// DefaultMapper only splits the key: "{family}:{id}" or "{family}:{parent}:{id}".
func DefaultMapper(key string, val []byte) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:      key,
		Family:   "raw",
		EntityID: "--------",
		Parent:   "-",
		Detail:   "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	switch len(parts) {
	case 1:
	case 2:
		row.Family, row.EntityID = parts[0], parts[1]
	default:
		row.Family, row.Parent, row.EntityID = parts[0], parts[1], strings.Join(parts[2:], ":")
	}
	return row
}
