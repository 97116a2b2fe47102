package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/cmd/cli/internal/commands"
	"github.com/wolfeidau/revenueguard/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Sign in"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Sign out and remove the stored session"`
		Signup   commands.SignupCmd   `cmd:"" help:"Register a new customer account"`
		Whoami   commands.WhoamiCmd   `cmd:"" help:"Show the signed in user"`
		Password commands.PasswordCmd `cmd:"" help:"Change your password"`
		Me       commands.MeCmd       `cmd:"" help:"Customer self-service"`
		Admin    commands.AdminCmd    `cmd:"" help:"Back-office administration"`
		Chat     commands.ChatCmd     `cmd:"" help:"Talk to the assistant"`

		Config    string `help:"Config file (default: ~/.revenueguard/config.yaml)" type:"path"`
		Server    string `help:"Server URL"`
		Store     string `help:"Session store backend" enum:",file,sqlite,memory" default:""`
		StorePath string `help:"Session store location"`
		Profile   string `help:"Session profile; each profile keeps its own stored session"`
		Debug     bool   `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("revenueguard"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)
	if !cli.Debug {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	err := cmd.Run(&commands.Globals{
		Debug:     cli.Debug,
		Version:   version,
		Config:    cli.Config,
		Server:    cli.Server,
		Store:     cli.Store,
		StorePath: cli.StorePath,
		Profile:   cli.Profile,
	})
	cmd.FatalIfErrorf(err)
}
