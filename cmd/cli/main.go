package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/cmd/cli/internal/commands"
	"github.com/wolfeidau/ecotrack/internal/logger"
	"github.com/wolfeidau/ecotrack/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Login       commands.LoginCmd       `cmd:"" help:"Sign in to EcoTrack"`
		Register    commands.RegisterCmd    `cmd:"" help:"Create an account and sign in"`
		Logout      commands.LogoutCmd      `cmd:"" help:"Sign out and forget the saved session"`
		Whoami      commands.WhoamiCmd      `cmd:"" help:"Show the signed in user"`
		Profile     commands.ProfileCmd     `cmd:"" help:"Show or edit the local profile"`
		Commute     commands.CommuteCmd     `cmd:"" help:"Compute commute distances between two points"`
		Calculate   commands.CalculateCmd   `cmd:"" help:"Estimate your monthly carbon footprint"`
		History     commands.HistoryCmd     `cmd:"" help:"Show footprint history"`
		Predict     commands.PredictCmd     `cmd:"" help:"Predict your weekly footprint with the ML model"`
		Model       commands.ModelCmd       `cmd:"" help:"Inspect or retrain the prediction model"`
		Challenges  commands.ChallengesCmd  `cmd:"" help:"Browse and take part in challenges"`
		Leaderboard commands.LeaderboardCmd `cmd:"" help:"Show the top users"`
		Feed        commands.FeedCmd        `cmd:"" help:"Community posts"`
		Redeem      commands.RedeemCmd      `cmd:"" help:"Spend points on rewards"`
		Classify    commands.ClassifyCmd    `cmd:"" help:"Classify a waste item from a photo"`
		Energy      commands.EnergyCmd      `cmd:"" help:"Solar and appliance efficiency calculators with advice"`
		Chat        commands.ChatCmd        `cmd:"" help:"Ask the sustainability assistant"`

		Debug      bool             `help:"Enable debug mode."`
		APIURL     string           `name:"api-url" help:"EcoTrack API base URL." env:"ECOTRACK_API_URL" default:"http://localhost:5000/api"`
		SessionDir string           `help:"Directory holding the saved session (default ~/.ecotrack)." env:"ECOTRACK_SESSION_DIR"`
		CacheDir   string           `help:"Directory for cached API responses (in-memory when empty)." env:"ECOTRACK_CACHE_DIR"`
		Timeout    time.Duration    `help:"API request timeout." env:"ECOTRACK_TIMEOUT" default:"30s"`
		Telemetry  bool             `help:"Export traces and metrics over OTLP." env:"ECOTRACK_TELEMETRY"`
		Ephemeral  bool             `help:"Keep the session in memory only." hidden:""`
		Version    kong.VersionFlag `help:"Print version and exit."`
	}
)

func main() {
	// .env is optional; values already in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("ecotrack"),
		kong.Description("Track and reduce your carbon footprint."),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	shutdown, err := telemetry.Init(ctx, "ecotrack", version, cli.Telemetry)
	cmd.FatalIfErrorf(err)

	err = cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Version:    version,
		APIURL:     cli.APIURL,
		SessionDir: cli.SessionDir,
		CacheDir:   cli.CacheDir,
		Timeout:    cli.Timeout,
		Ephemeral:  cli.Ephemeral,
	})

	if serr := shutdown(ctx); serr != nil {
		log.Warn().Err(serr).Msg("telemetry shutdown failed")
	}

	cmd.FatalIfErrorf(err)
}
