// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tuma/internal/ai"
	"tuma/internal/config"
	httptransport "tuma/internal/http"
	"tuma/internal/infra"
	"tuma/internal/maps"
	"tuma/internal/modules/aicredit"
	"tuma/internal/modules/booking"
	"tuma/internal/modules/costing"
	"tuma/internal/modules/payment"
	"tuma/internal/modules/quote"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("TUMA_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var provider ai.LLMProvider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	} else {
		log.Print("GEMINI_API_KEY not set; quote explanations disabled")
	}

	var estimator booking.DistanceEstimator
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		estimator = routes
	} else {
		log.Print("GOOGLE_MAPS_API_KEY not set; using great-circle distances")
	}

	creditsSvc := aicredit.NewService(aicredit.NewStore(dbPool))

	quoteStore := quote.NewStore(redisClient, cfg.Quote.TTL)
	quoteSvc := quote.NewService(quoteStore, provider, creditsSvc)

	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, costing.Engine{}, estimator)

	paymentStore := payment.NewStore(dbPool)
	paymentSvc := payment.NewService(paymentStore, bookingSvc)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Quotes:   quoteSvc,
		Bookings: bookingSvc,
		Payments: paymentSvc,
		Verifier: verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
