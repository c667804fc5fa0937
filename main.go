package main

import (
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/thullagame/thulla/config"
	"github.com/thullagame/thulla/events"
	"github.com/thullagame/thulla/game"
	"github.com/thullagame/thulla/room"
	"github.com/thullagame/thulla/server"
	"github.com/thullagame/thulla/store"
)

func main() {
	fmt.Println("Starting Thulla Game Server...")

	cfg := config.Load()

	var snapshots store.SnapshotStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		snapshots = store.NewRedisStore(client, cfg.SnapshotTTL)
	} else {
		snapshots = store.NewMemoryStore()
	}

	rules := game.DefaultRules()
	rules.BotSpeed = cfg.BotSpeed

	registry := room.NewRegistry(events.NewInMemoryStore(), snapshots, rules, cfg.Debug)

	s := server.NewServer(registry)
	if err := s.Start(cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
