package goNotes_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// ExampleEngine wires an engine against an in-memory SQLite store and miniredis, then
// walks through register, login and token authentication.
func ExampleEngine() {
	mr, err := miniredis.Run()
	if err != nil {
		log.Fatal(err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	db, err := store.Open("file:example?mode=memory&cache=shared")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	cfg := goNotes.DefaultConfig()
	cfg.JWT.Secret = []byte("example-secret")

	engine, err := goNotes.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(db.Users()).
		Build()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()

	if _, err := engine.Register(ctx, goNotes.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	}); err != nil {
		log.Fatal(err)
	}

	_, err = engine.Login(ctx, "alice@example.com", "wrong")
	fmt.Println("wrong password:", errors.Is(err, goNotes.ErrInvalidCredentials))

	res, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		log.Fatal(err)
	}

	id, err := engine.Authenticate(ctx, res.Token)
	if err != nil {
		log.Fatal(err)
	}
	user, err := engine.Me(ctx, id.UserID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("authenticated:", user.Email)

	// Output:
	// wrong password: true
	// authenticated: alice@example.com
}
