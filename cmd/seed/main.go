package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	gofakeit "github.com/brianvoe/gofakeit/v7"

	"buildbid/internal/config"
	"buildbid/internal/domain/model"
	pg "buildbid/internal/infra/db/postgres"
	"buildbid/internal/infra/logging"
	"buildbid/internal/usecase"
)

var categories = []string{
	"plumbing", "electrical", "carpentry", "painting", "masonry", "roofing",
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	clients := flag.Int("clients", 5, "number of demo clients")
	contractors := flag.Int("contractors", 10, "number of demo contractors")
	jobs := flag.Int("jobs", 15, "number of demo jobs")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	jobRepo := pg.NewJobRepo(pool)
	bidRepo := pg.NewBidRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	notifRepo := pg.NewNotificationRepo(pool)

	userUC := usecase.NewUserUseCase(userRepo)
	jobUC := usecase.NewJobUseCase(jobRepo, userRepo, bidRepo, notifRepo, pg.NewTxManager(pool), logger)
	bidUC := usecase.NewBidUseCase(jobRepo, bidRepo, userRepo, notifRepo, nil, nil, logger)

	// If open jobs already exist, do nothing.
	existing, err := jobUC.ListOpen(ctx, "")
	if err != nil {
		log.Fatalf("list jobs: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d open jobs already present. No changes.\n", len(existing))
		return
	}

	gofakeit.Seed(0)

	clientIDs := make([]string, 0, *clients)
	for i := 0; i < *clients; i++ {
		u, err := userUC.Register(ctx, usecase.RegisterInput{
			Role:     model.UserRoleClient,
			FullName: gofakeit.Name(),
			Email:    gofakeit.Email(),
			Phone:    gofakeit.Phone(),
			Location: gofakeit.City(),
		})
		if err != nil {
			log.Fatalf("seed client: %v", err)
		}
		clientIDs = append(clientIDs, u.ID)
	}

	contractorIDs := make([]string, 0, *contractors)
	for i := 0; i < *contractors; i++ {
		u, err := userUC.Register(ctx, usecase.RegisterInput{
			Role:     model.UserRoleContractor,
			FullName: gofakeit.Name(),
			Email:    gofakeit.Email(),
			Phone:    gofakeit.Phone(),
			Location: gofakeit.City(),
			Category: categories[rand.Intn(len(categories))],
		})
		if err != nil {
			log.Fatalf("seed contractor: %v", err)
		}
		contractorIDs = append(contractorIDs, u.ID)
	}

	for i := 0; i < *jobs; i++ {
		j, err := jobUC.PostJob(ctx, usecase.PostJobInput{
			ClientID:    clientIDs[rand.Intn(len(clientIDs))],
			Title:       gofakeit.BuzzWord() + " " + categories[rand.Intn(len(categories))] + " work",
			Description: gofakeit.Blurb(),
			Category:    categories[rand.Intn(len(categories))],
			Budget:      float64(gofakeit.IntRange(5, 500)) * 1000,
			Timeline:    fmt.Sprintf("%d weeks", gofakeit.IntRange(1, 8)),
			Location:    gofakeit.City(),
		})
		if err != nil {
			log.Fatalf("seed job: %v", err)
		}

		// A couple of bids per job so listings have something to show.
		for _, cid := range pick(contractorIDs, rand.Intn(3)) {
			_, err := bidUC.SubmitBid(ctx, usecase.SubmitBidInput{
				JobID:          j.ID,
				ContractorID:   cid,
				Amount:         j.Budget * (0.7 + rand.Float64()*0.5),
				CompletionDays: gofakeit.IntRange(5, 60),
				Proposal:       gofakeit.Blurb(),
				TermsAccepted:  true,
			})
			if err != nil {
				log.Fatalf("seed bid: %v", err)
			}
		}
	}

	fmt.Printf("seeded %d clients, %d contractors, %d jobs\n", *clients, *contractors, *jobs)
}

// pick returns up to n distinct entries from ids.
func pick(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	perm := rand.Perm(len(ids))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, ids[idx])
	}
	return out
}
