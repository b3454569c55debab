package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/repository"
)

// Seeds a few match records so the server can be exercised locally without
// the matchmaking lambdas.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "pong"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewMatchRepo(client.Database(database))

	matches := []*model.Match{
		{GameCode: "AAAAAA", Player1: "alice@example.com", Status: model.MatchAwaiting},
		{GameCode: "BBBBBB", Player1: "bob@example.com", Player2: "carol@example.com", Status: model.MatchReady},
	}

	for _, m := range matches {
		if existing, err := repo.GetByCode(ctx, m.GameCode); err != nil {
			log.Fatalf("Failed to check match %s: %v", m.GameCode, err)
		} else if existing != nil {
			fmt.Printf("match %s already exists, skipping\n", m.GameCode)
			continue
		}
		if err := repo.Create(ctx, m); err != nil {
			log.Fatalf("Failed to create match %s: %v", m.GameCode, err)
		}
		fmt.Printf("seeded match %s (%s)\n", m.GameCode, m.Status)
	}
}
