package main

import (
	"log"
	"os"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/exam"
	"github.com/hazekiller/gyan/core/user"
	logsvc "github.com/hazekiller/gyan/services/logger"
	"github.com/hazekiller/gyan/storage/database"
	boiledrepos "github.com/hazekiller/gyan/storage/database/sqlboiler"
	sqlxrepos "github.com/hazekiller/gyan/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database: "+err.Error(), err)
	}

	// start CLI
	usrRepo := boiledrepos.NewUserRepository(db)
	cli := commandLine{
		db:        db,
		usrRepo:   usrRepo,
		usrSvc:    user.NewService(usrRepo),
		reportSvc: exam.NewService(boiledrepos.NewExamSource(db), conf.Report, logger),
		importer:  sqlxrepos.NewResultImporter(db),
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	if err != nil && err != errHelp {
		logger.Error("error: "+err.Error(), err)
	}
	_ = db.Close()
	logger.Close()

	if err != nil {
		os.Exit(1)
	}
}
