package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"labubu_store/internal/cart"
	"labubu_store/internal/catalog"
	"labubu_store/internal/checkout"
	"labubu_store/internal/config"
	"labubu_store/internal/database"
	"labubu_store/internal/events"
	"labubu_store/internal/handlers"
	"labubu_store/internal/mailer"
	"labubu_store/internal/middleware"
	"labubu_store/internal/models"
	"labubu_store/internal/routes"
	"labubu_store/internal/store"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log.SetFormatter(&log.JSONFormatter{})
			log.SetLevel(cfg.Level())
			decimal.MarshalJSONWithoutQuotes = true
			gin.SetMode(gin.ReleaseMode)
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var notifier *mailer.Notifier
	if cfg.MailEnabled() {
		notifier = mailer.NewNotifier(mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}))
		defer notifier.Wait()
	}

	h, opts := wire(cfg, rdb, notifier)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, h, opts)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("labubu store listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// wire builds the services. Redis, when present, backs session state, pub/sub
// and rate limiting; otherwise everything stays in process.
func wire(cfg *config.Config, rdb *redis.Client, notifier *mailer.Notifier) (*handlers.Handler, routes.Options) {
	products := catalog.NewFixtureStore()
	dispatchers := events.Multi{events.NewLogDispatcher()}

	var (
		carts       store.Store[cart.Cart]
		flows       store.Store[checkout.Flow]
		orders      store.Store[models.OrderConfirmation]
		subscriber  events.Subscriber
		counterConn redis.UniversalClient
	)
	if rdb != nil {
		carts = store.NewRedis[cart.Cart](rdb, "cart", cfg.SessionTTL)
		flows = store.NewRedis[checkout.Flow](rdb, "checkout", cfg.SessionTTL)
		orders = store.NewRedis[models.OrderConfirmation](rdb, "order", cfg.SessionTTL)
		dispatchers = append(dispatchers, events.NewRedisPublisher(rdb))
		subscriber = events.NewRedisSubscriber(rdb)
		counterConn = rdb
	} else {
		hub := events.NewHub()
		carts = store.NewMemory[cart.Cart](cfg.SessionTTL)
		flows = store.NewMemory[checkout.Flow](cfg.SessionTTL)
		orders = store.NewMemory[models.OrderConfirmation](cfg.SessionTTL)
		dispatchers = append(dispatchers, hub)
		subscriber = hub
	}
	if notifier != nil {
		dispatchers = append(dispatchers, notifier)
	}

	cartSvc := cart.NewService(products, carts, dispatchers, cart.Policy{FlatRate: cfg.FlatShipping})
	checkoutSvc := checkout.NewService(flows, orders, cartSvc, dispatchers, checkout.NewOptions(cfg.StandardShipping, cfg.ExpressShipping))
	tokens := middleware.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)

	h := &handlers.Handler{
		Products:      products,
		Carts:         cartSvc,
		Checkout:      checkoutSvc,
		Tokens:        tokens,
		Notifications: subscriber,
		PageSize:      cfg.PageSize,
	}
	opts := routes.Options{
		CORSOrigins:   cfg.CORSOrigins,
		Sessions:      middleware.NewCookieStore(cfg.SessionSecret, int(cfg.SessionTTL.Seconds())),
		Tokens:        tokens,
		Counter:       middleware.RedisCounter(counterConn),
		RateLimit:     cfg.RateLimit,
		CartRateLimit: cfg.CartRateLimit,
	}
	return h, opts
}
