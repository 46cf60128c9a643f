package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/session"
)

type ChallengesCmd struct {
	List     ChallengesListCmd     `cmd:"" default:"withargs" help:"List challenges"`
	Join     ChallengesJoinCmd     `cmd:"" help:"Join a challenge"`
	Leave    ChallengesLeaveCmd    `cmd:"" help:"Leave a challenge"`
	Complete ChallengesCompleteCmd `cmd:"" help:"Submit a challenge quiz score"`
}

type ChallengesListCmd struct {
	Category string `help:"Filter by category" default:"all"`
}

func (c *ChallengesListCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	challenges, err := api.Challenges(ctx, c.Category)
	if err != nil {
		return apiError("list challenges", err)
	}

	if len(challenges) == 0 {
		fmt.Fprintln(globals.out(), "No challenges found.")
		return nil
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tDIFFICULTY\tPOINTS\tPARTICIPANTS\tSTATUS")
	for _, ch := range challenges {
		status := ""
		switch {
		case ch.IsCompleted:
			status = "completed"
		case ch.IsJoined:
			status = "joined"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%d\t%s\n",
			ch.ID, ch.Title, ch.Category, ch.Difficulty, ch.Points.Float64(), ch.ParticipantCount, status)
	}
	return w.Flush()
}

type ChallengesJoinCmd struct {
	ID string `arg:"" help:"Challenge ID"`
}

func (c *ChallengesJoinCmd) Run(ctx context.Context, globals *Globals) error {
	store, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	if err := api.JoinChallenge(ctx, c.ID); err != nil {
		return apiError("join challenge", err)
	}

	adjustJoined(ctx, store, 1)
	fmt.Fprintf(globals.out(), "Joined challenge %s\n", c.ID)
	return nil
}

type ChallengesLeaveCmd struct {
	ID string `arg:"" help:"Challenge ID"`
}

func (c *ChallengesLeaveCmd) Run(ctx context.Context, globals *Globals) error {
	store, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	if err := api.LeaveChallenge(ctx, c.ID); err != nil {
		return apiError("leave challenge", err)
	}

	adjustJoined(ctx, store, -1)
	fmt.Fprintf(globals.out(), "Left challenge %s\n", c.ID)
	return nil
}

type ChallengesCompleteCmd struct {
	ID    string `arg:"" help:"Challenge ID"`
	Score int    `help:"Quiz score" required:""`
}

func (c *ChallengesCompleteCmd) Run(ctx context.Context, globals *Globals) error {
	store, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	update, err := api.CompleteChallenge(ctx, c.ID, c.Score)
	if err != nil {
		return apiError("complete challenge", err)
	}

	if !update.IsEmpty() {
		if _, err := store.SaveProfile(ctx, update); err != nil {
			log.Warn().Err(err).Msg("failed to apply profile update")
		}
	}

	user := store.Current().User
	fmt.Fprintf(globals.out(), "Challenge %s completed. Score: %.0f points, %d challenges completed.\n",
		c.ID, user.SustainabilityScore, user.CompletedChallenges)
	return nil
}

// adjustJoined moves the local joined count by delta, never below zero.
func adjustJoined(ctx context.Context, store *session.Store, delta int) {
	current := store.Current()
	if current.User == nil {
		return
	}

	joined := max(current.User.JoinedChallenges+delta, 0)
	if _, err := store.SaveProfile(ctx, session.ProfileUpdate{JoinedChallenges: intPtr(joined)}); err != nil {
		log.Warn().Err(err).Msg("failed to update joined challenges")
	}
}

type LeaderboardCmd struct {
	Limit int `help:"Number of entries to show (0 for all)" default:"5"`
}

func (l *LeaderboardCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	board, err := api.Leaderboard(ctx)
	if err != nil {
		return apiError("fetch leaderboard", err)
	}

	if l.Limit > 0 && len(board) > l.Limit {
		board = board[:l.Limit]
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tSCORE\tCOMPLETED")
	for i, e := range board {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%d\n", i+1, e.Name, e.SustainabilityScore.Float64(), e.CompletedChallenges)
	}
	return w.Flush()
}
