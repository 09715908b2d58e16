package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/fjod/cart-manager/internal/catalog"
	"github.com/fjod/cart-manager/internal/domain"
	carthttp "github.com/fjod/cart-manager/internal/http"
	"github.com/fjod/cart-manager/internal/notify"
	"github.com/fjod/cart-manager/internal/poller"
	"github.com/fjod/cart-manager/internal/snapshot"
	"github.com/fjod/cart-manager/internal/store"
	"github.com/fjod/cart-manager/internal/view"
)

type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	CatalogURL      string        `env:"CATALOG_URL" envDefault:"http://localhost:3333"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	KafkaBrokers    []string      `env:"KAFKA_BROKERS"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	LookupTimeout   time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func main() {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	ctx := context.Background()

	// Snapshot backend: Redis when configured, otherwise in-memory only.
	var snap snapshot.Store
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Connected to Redis at %s", cfg.RedisAddr)
		snap = snapshot.NewRedisStore(redisClient)
	} else {
		log.Println("REDIS_ADDR empty, cart will not survive restarts")
		snap = snapshot.NewMemoryStore()
	}

	lookup := catalog.NewClient(cfg.CatalogURL, cfg.LookupTimeout)
	cartStore := store.New(ctx, snap, lookup, notify.Log{})
	cartStore.Watch(func(cart domain.Cart) {
		log.Printf("cart now holds %d line(s)", len(cart))
	})

	cartView := view.New(cartStore)
	handler := carthttp.NewCartHandler(cartView)
	router := carthttp.NewRouter(handler, cfg.RequestTimeout)

	pollerCtx, cancelPoller := context.WithCancel(ctx)
	defer cancelPoller()
	if len(cfg.KafkaBrokers) > 0 {
		p := poller.New(cartStore, cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(pollerCtx)
		log.Printf("stock-update poller consuming from %v", cfg.KafkaBrokers)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("cart-manager listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancelPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
