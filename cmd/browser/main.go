package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/common"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/config"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/engine"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/filter"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/listing"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/session"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/tracking"
)

var configPath = flag.String("config", "config.toml", "path to the configuration file")

// memoryPort stands in for a browser location bar: the demo process owns a
// single browse session whose location is inspectable over HTTP. The url
// commit tier writes from its timer goroutine, handlers read from theirs.
type memoryPort struct {
	mu       sync.Mutex
	location string
}

func (p *memoryPort) Read() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

func (p *memoryPort) Write(loc string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = loc
}

func loadCatalog(path string) ([]listing.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var items []listing.Listing
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

type browseResponse struct {
	Location    string          `json:"location"`
	Items       []filter.Ranked `json:"items"`
	Total       int             `json:"total"`
	IsFiltering bool            `json:"isFiltering"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"totalPages"`
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	catalog, err := loadCatalog(cfg.Snapshot.Path)
	if err != nil {
		log.Fatalf("catalog snapshot: %v", err)
	}
	log.Printf("loaded %d listings from %s", len(catalog), cfg.Snapshot.Path)

	var markers session.MarkerStore
	if cfg.Redis.Addr != "" {
		markers = session.NewRedisMarkerStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Printf("session markers persisted in redis at %s", cfg.Redis.Addr)
	}

	var tracker tracking.Tracker = tracking.NoopTracker{}
	var rabbit *tracking.RabbitTracking
	if cfg.Rabbit.Url != "" {
		rabbit, err = tracking.NewRabbitTracking(cfg.Rabbit.Url, cfg.Country)
		if err != nil {
			log.Printf("tracking disabled, broker unreachable: %v", err)
		} else {
			tracker = rabbit
		}
	}

	port := &memoryPort{location: "/"}
	eng := engine.New(engine.Options{
		Catalog:    catalog,
		Port:       port,
		Markers:    markers,
		Tracker:    tracker,
		Secret:     []byte(cfg.Session.Secret),
		PageSize:   cfg.Browse.PageSize,
		Tortuosity: cfg.Geo.Tortuosity,
		TextDelay:  cfg.Browse.TextDelay(),
		URLDelay:   cfg.Browse.URLDelay(),
		GeoTimeout: cfg.Geo.Timeout(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/browse", common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		if loc := r.URL.Query().Get("loc"); loc != "" {
			eng.HandleExternalLocation(loc)
		}
		vm := waitSettled(eng, 2*time.Second)
		return enc.Encode(browseResponse{
			Location:    port.Read(),
			Items:       vm.PagedItems,
			Total:       vm.TotalCount,
			IsFiltering: vm.IsFiltering,
			Page:        vm.CurrentPage,
			TotalPages:  vm.TotalPages,
		})
	}))
	mux.HandleFunc("/api/login", common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		token, err := eng.Session().CompleteLogin(r.Context())
		if err != nil {
			return err
		}
		return enc.Encode(map[string]string{"token": token})
	}))
	mux.HandleFunc("/api/restore", common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
		ok := eng.Session().RestoreLogin(r.Context(), r.URL.Query().Get("token"))
		return enc.Encode(map[string]bool{"loggedIn": ok})
	}))

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	common.RunServerWithShutdown(server, "browse demo", 15*time.Second, func(ctx context.Context) error {
		eng.Close()
		if rabbit != nil {
			return rabbit.Close()
		}
		return nil
	})
}

// waitSettled polls until the deferred derivation catches up, bounded so a
// busy engine still answers.
func waitSettled(eng *engine.Engine, limit time.Duration) engine.ViewModel {
	deadline := time.Now().Add(limit)
	for {
		vm := eng.View()
		if !vm.IsFiltering || time.Now().After(deadline) {
			return vm
		}
		time.Sleep(5 * time.Millisecond)
	}
}
