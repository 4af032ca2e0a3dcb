package main

import (
	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/storage/database"
)

func migrate(conf *core.Config, logger core.Logger) error {
	if err := database.CreateIfNotExist(conf); err != nil {
		return errors.Wrap(err, "setting up database")
	}

	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = database.Migrate(db); err != nil {
		return err
	}
	logger.Info("migrations complete")
	return nil
}
