// Command seed provisions a user account from the command line.  Accounts
// are created out-of-band on purpose: the HTTP surface has no registration
// endpoint, so this is the only way users come into existence.
//
//	go run ./cmd/seed -username kennel-admin -email owner@example.com -role ADMIN
//
// The password is read from the SEED_PASSWORD environment variable so it
// never lands in shell history.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kennelworks/studbook-server/internal/config"
	"github.com/kennelworks/studbook-server/internal/database"
	"github.com/kennelworks/studbook-server/internal/model"
	"github.com/kennelworks/studbook-server/internal/repository"
)

func main() {
	username := flag.String("username", "", "login name for the new account")
	email := flag.String("email", "", "email address for the new account")
	role := flag.String("role", string(model.RoleStandard), "ADMIN or STANDARD")
	flag.Parse()

	password := os.Getenv("SEED_PASSWORD")
	if *username == "" || *email == "" || password == "" {
		logrus.Fatal("usage: seed -username U -email E [-role ADMIN] with SEED_PASSWORD set")
	}
	r := model.Role(*role)
	if !r.Valid() {
		logrus.Fatalf("unknown role %q", *role)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	id, err := users.Create(ctx, *username, *email, password, r, cfg.BcryptCost)
	if err != nil {
		logrus.WithError(err).Fatal("create user failed")
	}
	logrus.WithFields(logrus.Fields{"id": id, "username": *username, "role": string(r)}).Info("user created")
}
