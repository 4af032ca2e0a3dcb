package main

import (
	"context"
	_ "expvar" // register /debug/vars
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/maktab-app/maktab/apps/api/echo"
	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
	"github.com/maktab-app/maktab/core/forum"
	emailsvc "github.com/maktab-app/maktab/services/email"
	logsvc "github.com/maktab-app/maktab/services/logger"
	quransvc "github.com/maktab-app/maktab/services/quran"
	realtimesvc "github.com/maktab-app/maktab/services/realtime"
	tajweedsvc "github.com/maktab-app/maktab/services/tajweed"
	memcache "github.com/maktab-app/maktab/storage/cache"
	"github.com/maktab-app/maktab/storage/database"
	sqlxrepos "github.com/maktab-app/maktab/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	if err := run(conf, logger); err != nil {
		logger.Fatal("api: startup", err)
	}
}

func run(conf *core.Config, logger core.Logger) error {
	logger.Info("api: started; version " + conf.Build)
	defer logger.Info("api: stopped")

	// database
	if err := database.CreateIfNotExist(conf); err != nil {
		return errors.Wrap(err, "setting up database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()
	if err = database.Migrate(db); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	// cache
	cache := memcache.New(conf.Cache.DefaultTTL, conf.Cache.SweepInterval)
	defer cache.Close()

	// services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	notifier := realtimesvc.NewLogNotifier(logger)

	directory := sqlxrepos.NewDirectory(sdb)
	resolver := author.NewResolver(directory)
	forumSvc := forum.NewService(sqlxrepos.NewForumRepository(sdb), resolver, cache, logger)
	billingSvc := billing.NewService(sqlxrepos.NewBillingRepository(sdb), cache, logger, mailSvc, conf)
	quranClient := quransvc.NewClient(conf, cache)
	tajweedScorer := tajweedsvc.NewScorer()

	// validation
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	// debug server (expvar + pprof); not load balanced, failure is non-fatal
	go func() {
		logger.Info("api: debug server listening on " + conf.Server.DebugAddr)
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error("api: debug server closed", err)
		}
	}()

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Directory:     directory,
		ForumSvc:      forumSvc,
		BillingSvc:    billingSvc,
		QuranClient:   quranClient,
		TajweedScorer: tajweedScorer,
		Notifier:      notifier,
		Validate:      validate,
		Translator:    translator,
	})
	go server.Start()

	// graceful shutdown
	select {
	case err := <-server.Errors():
		return errors.Wrap(err, "server error")

	case sig := <-server.ShutdownSignal():
		logger.Info("api: shutdown started")
		defer logger.Info("api: shutdown complete")

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return errors.Wrapf(err, "could not stop server gracefully (%v)", sig)
		}
	}
	return nil
}
