// Демо-сидер: наполняет базу фейковыми юзерами с ненулевыми балансами.
// Предназначен только для локальной разработки и бенчмарков.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	totalUsers     = 50
	initialBalance = 1000000 // 10000.00 в минорных единицах
	seedPassword   = "password123"
)

func main() {
	var dsn string
	flag.StringVar(&dsn, "d", os.Getenv("DATABASE_URI"), "Database DSN")
	flag.Parse()

	if dsn == "" {
		log.Fatal("database DSN is not set")
	}

	ctx := context.Background()
	conn, connErr := pgx.Connect(ctx, dsn)
	if connErr != nil {
		log.Fatalf("unable to connect to database: %v", connErr)
	}
	defer conn.Close(ctx)

	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		log.Fatalf("counting users: %v", err)
	}
	if count >= totalUsers {
		log.Printf("database already has %d users, skipping", count)
		return
	}

	password, hashErr := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if hashErr != nil {
		log.Fatalf("hashing seed password: %v", hashErr)
	}

	log.Printf("seeding %d users...", totalUsers)

	var userIDs []int64
	for range totalUsers {
		username := gofakeit.Username()
		if len(username) > 15 {
			username = username[:15]
		}
		phone := "+91" + gofakeit.Numerify("##########")

		var userID int64
		insertErr := conn.QueryRow(ctx,
			`INSERT INTO users (username, phone, encrypted_password)
			 VALUES ($1, $2, $3)
			 ON CONFLICT DO NOTHING
			 RETURNING id`,
			username, phone, string(password),
		).Scan(&userID)
		if insertErr != nil {
			// конфликт юзернейма/телефона - просто пропускаем сгенерированного
			continue
		}
		userIDs = append(userIDs, userID)
	}

	rows := make([][]any, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, []any{userID, int64(initialBalance)})
	}

	copyCount, copyErr := conn.CopyFrom(
		ctx,
		pgx.Identifier{"accounts"},
		[]string{"user_id", "available_amount"},
		pgx.CopyFromRows(rows),
	)
	if copyErr != nil {
		log.Fatalf("bulk account insert failed: %v", copyErr)
	}

	log.Printf("seeded %d users with %d accounts", len(userIDs), copyCount)
}
