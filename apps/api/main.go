package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/hazekiller/gyan/apps/api/echo"
	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/access"
	"github.com/hazekiller/gyan/core/exam"
	"github.com/hazekiller/gyan/core/user"
	appfs "github.com/hazekiller/gyan/fs"
	emailsvc "github.com/hazekiller/gyan/services/email"
	logsvc "github.com/hazekiller/gyan/services/logger"
	"github.com/hazekiller/gyan/services/upstream"
	"github.com/hazekiller/gyan/storage/database"
	inmemdb "github.com/hazekiller/gyan/storage/database/inmem"
	boiledrepos "github.com/hazekiller/gyan/storage/database/sqlboiler"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up repositories
	var (
		usrRepo user.Repository
		src     exam.Source
	)
	switch conf.Report.Source {
	case core.SourceMemory:
		db := inmemdb.Open()
		db.Load(sampleDataset())
		usrRepo = inmemdb.NewUserRepository(db)
		src = inmemdb.NewExamRepository(db)
		seedAdmin(usrRepo, logger)

	default: // users always live in postgres outside of memory mode
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
		usrRepo = boiledrepos.NewUserRepository(db)
		if conf.Report.Source == core.SourceUpstream {
			src = upstream.NewClient(conf.Upstream, &http.Client{Timeout: conf.Report.FetchTimeout}, logger)
		} else {
			src = boiledrepos.NewExamSource(db)
		}
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, os.Stdout, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(usrRepo)
	reportSvc := exam.NewService(src, conf.Report, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q, report source %q", conf.Build, conf.Report.Source))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, "templates/email", conf.Debug, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("reportSource").Set(conf.Report.Source)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server, err := echoapi.NewServer(echoapi.Deps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		ReportSvc:  reportSvc,
		MailSvc:    mailSvc,
		Policy:     access.DefaultPolicy,
		Validate:   validate,
		Translator: translator,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("initializing server: %v", err), err)
	}

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
