package main

import (
	"context"
	"flag"
	"fmt"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/storage/database"
	sqlxrepos "github.com/maktab-app/maktab/storage/database/sqlx"
)

func addAdmin(args []string, conf *core.Config, logger core.Logger) error {
	fs := flag.NewFlagSet("addadmin", flag.ExitOnError)
	name := fs.String("name", "", "admin's full name")
	email := fs.String("email", "", "admin's email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		fs.Usage()
		return errors.New("both -name and -email are required")
	}

	pwd, err := readPassword()
	if err != nil {
		return err
	}

	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	now := time.Now().UTC()
	admin := author.Person{Name: *name, Email: *email, CreatedAt: now, UpdatedAt: now}
	if err = admin.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}

	admin, err = sqlxrepos.NewDirectory(sdb).CreateAdmin(context.Background(), admin)
	if err != nil {
		return errors.Wrap(err, "creating admin")
	}
	logger.Info("admin " + admin.ID + " created")
	return nil
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	pwd, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "reading password confirmation")
	}

	if string(pwd) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	if len(pwd) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pwd), nil
}
