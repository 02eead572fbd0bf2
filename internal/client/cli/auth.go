package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return a.fail(err)
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.service.Register(ctx, username, email, password); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	login, err := GetSimpleText(a.reader, "Enter user name or email", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.service.Login(ctx, login, password); err != nil {
		return a.fail(err)
	}

	a.userName = login
	if me, err := a.service.WhoAmI(ctx); err == nil {
		a.userName = me.Username
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.service.Refresh(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Token refreshed")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	me, err := a.service.WhoAmI(ctx)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "%d\t%s\t%s\n", me.ID, me.Username, me.Email)
	return nil
}

func (a *App) Logout(context.Context) error {
	a.service.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
