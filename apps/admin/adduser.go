package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: uname})
	if err != nil && errors.Cause(err) == user.ErrNotFound && email != "" {
		usr, err = cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: email})
	}
	isNew := errors.Cause(err) == user.ErrNotFound
	if err != nil && !isNew {
		return err
	}

	now := time.Now().UTC()
	if isNew {
		usr = user.User{Name: uname, CreatedAt: now}
	}
	usr.Username = uname
	if email != "" {
		usr.Email = email
	}
	if err = cli.usrRepo.CheckUsernameUniqueness(ctx, usr.Username, usr.Email, usr); err != nil {
		return err
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}

	if isNew {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
