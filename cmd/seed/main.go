package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	userIDs, err := seedUsers(ctx, pool, 50)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}
	requestIDs, err := seedRequests(ctx, pool, userIDs, 120)
	if err != nil {
		log.Fatalf("seed requests: %v", err)
	}
	if err := seedAppointments(ctx, pool, userIDs, requestIDs); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, count int) ([]string, error) {
	log.Printf("seeding %d users", count)

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var id string
		err := pool.QueryRow(ctx,
			`INSERT INTO users (subject_id, name, email) VALUES ($1, $2, $3) RETURNING id`,
			"auth0|"+uuid.NewString(),
			gofakeit.Name(),
			gofakeit.Email(),
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var chores = []string{
	"Fix a leaking tap",
	"Mow the front lawn",
	"Pick up groceries",
	"Walk the dog",
	"Assemble flat-pack furniture",
	"Drive to a medical appointment",
	"Clear gutters",
	"Shovel snow from the driveway",
	"Help move boxes",
	"Repair a fence panel",
}

func seedRequests(ctx context.Context, pool *pgxpool.Pool, userIDs []string, count int) ([]string, error) {
	log.Printf("seeding %d requests", count)

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var id string
		err := pool.QueryRow(ctx,
			`INSERT INTO requests (user_id, title, description, status) VALUES ($1, $2, $3, 'OPEN') RETURNING id`,
			userIDs[gofakeit.Number(0, len(userIDs)-1)],
			chores[gofakeit.Number(0, len(chores)-1)],
			gofakeit.Sentence(12),
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// seedAppointments schedules a volunteer for roughly a third of the requests,
// one appointment each, and moves those requests to IN_PROGRESS.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, userIDs, requestIDs []string) error {
	scheduled := 0
	for _, requestID := range requestIDs {
		if gofakeit.Number(0, 2) != 0 {
			continue
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO appointments (request_id, volunteer_id, appointment_time, status) VALUES ($1, $2, $3, 'SCHEDULED')`,
			requestID,
			userIDs[gofakeit.Number(0, len(userIDs)-1)],
			gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 1, 0)),
		)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx,
			`UPDATE requests SET status='IN_PROGRESS', updated_at=NOW() WHERE id=$1`, requestID); err != nil {
			return err
		}
		scheduled++
	}
	log.Printf("seeded %d appointments", scheduled)
	return nil
}
