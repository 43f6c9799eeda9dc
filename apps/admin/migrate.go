package main

import (
	"fmt"
	"strconv"

	"github.com/trezcool/goose"

	appfs "github.com/hazekiller/gyan/fs"
	"github.com/hazekiller/gyan/storage/database"
)

// mockable
var (
	gooseUp      = goose.Up
	gooseUpByOne = goose.UpByOne
	gooseUpTo    = goose.UpTo
	gooseDown    = goose.Down
	gooseDownTo  = goose.DownTo
	gooseRedo    = goose.Redo
)

func (cli *commandLine) migrate(args []string) error {
	dir := database.MigrationsDir
	command := args[0]

	switch command {
	case "up":
		return gooseUp(cli.db, appfs.FS, dir)
	case "up-by-one":
		return gooseUpByOne(cli.db, appfs.FS, dir)
	case "down":
		return gooseDown(cli.db, appfs.FS, dir)
	case "redo":
		return gooseRedo(cli.db, appfs.FS, dir)
	case "up-to", "down-to":
		if len(args) < 2 {
			return fmt.Errorf("%s must be of form: admin migrate %s VERSION", command, command)
		}
		version, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("version must be a number (got '%s')", args[1])
		}
		if command == "up-to" {
			return gooseUpTo(cli.db, appfs.FS, dir, version)
		}
		return gooseDownTo(cli.db, appfs.FS, dir, version)
	default:
		return fmt.Errorf("%q: no such command", command)
	}
}
