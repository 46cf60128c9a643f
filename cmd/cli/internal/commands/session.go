package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/session"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Account email address"`
	Password string `help:"Account password (read from stdin when omitted)" env:"ECOTRACK_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	password, err := readPassword(globals, l.Password)
	if err != nil {
		return err
	}

	auth, err := newAuthenticator(ctx, globals)
	if err != nil {
		return err
	}

	user, err := auth.Login(ctx, l.Email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(globals.out(), "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

type RegisterCmd struct {
	Name     string `arg:"" help:"Display name"`
	Email    string `arg:"" help:"Account email address"`
	Password string `help:"Account password (read from stdin when omitted)" env:"ECOTRACK_PASSWORD"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	password, err := readPassword(globals, r.Password)
	if err != nil {
		return err
	}

	auth, err := newAuthenticator(ctx, globals)
	if err != nil {
		return err
	}

	user, err := auth.Register(ctx, r.Name, r.Email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Fprintf(globals.out(), "Welcome to EcoTrack, %s! You are now logged in.\n", user.Name)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := globals.openStore(ctx)
	if err != nil {
		return err
	}

	if !store.IsAuthenticated() {
		fmt.Fprintln(globals.out(), "Not logged in.")
		return nil
	}

	// the cache is keyed by the token, so purge it while the token is known
	c, err := globals.newClient(store)
	if err != nil {
		return err
	}
	if err := c.PurgeCache(); err != nil {
		log.Warn().Err(err).Msg("failed to purge response cache")
	}

	if err := store.Logout(ctx); err != nil {
		return fmt.Errorf("failed to remove saved session: %w", err)
	}

	fmt.Fprintln(globals.out(), "Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := globals.openStore(ctx)
	if err != nil {
		return err
	}

	current := store.Current()
	if !current.IsAuthenticated() {
		fmt.Fprintln(globals.out(), "Not logged in.")
		return nil
	}

	printUser(globals, current)
	return nil
}

type ProfileCmd struct {
	Name  string `help:"Change the display name"`
	Email string `help:"Change the email address"`
}

func (p *ProfileCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := globals.openStore(ctx)
	if err != nil {
		return err
	}

	var update session.ProfileUpdate
	if p.Name != "" {
		update.Name = &p.Name
	}
	if p.Email != "" {
		update.Email = &p.Email
	}

	if !update.IsEmpty() {
		if _, err := store.SaveProfile(ctx, update); err != nil {
			if errors.Is(err, session.ErrNotAuthenticated) {
				return ErrNotLoggedIn
			}
			return fmt.Errorf("failed to update profile: %w", err)
		}
	} else if !store.IsAuthenticated() {
		return ErrNotLoggedIn
	}

	printUser(globals, store.Current())
	return nil
}

func printUser(globals *Globals, current session.Session) {
	u := current.User

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", u.Name)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "Sustainability score:\t%.0f\n", u.SustainabilityScore)
	fmt.Fprintf(w, "Challenges:\t%d joined, %d completed\n", u.JoinedChallenges, u.CompletedChallenges)
	if len(u.Achievements) > 0 {
		fmt.Fprintf(w, "Achievements:\t%s\n", strings.Join(u.Achievements, ", "))
	}
	if u.CarbonFootprint > 0 {
		fmt.Fprintf(w, "Carbon footprint:\t%.1f kg CO2/month\n", u.CarbonFootprint)
	}
	fmt.Fprintf(w, "Token:\t%s\n", session.Fingerprint(current.Token))
	if exp, ok := session.TokenExpiry(current.Token); ok {
		fmt.Fprintf(w, "Expires:\t%s\n", exp.Local().Format(time.RFC1123))
	}
	_ = w.Flush()
}

func newAuthenticator(ctx context.Context, globals *Globals) (*session.Authenticator, error) {
	store, err := globals.openStore(ctx)
	if err != nil {
		return nil, err
	}

	c, err := globals.newClient(store)
	if err != nil {
		return nil, err
	}

	return session.NewAuthenticator(store, c), nil
}

// readPassword returns the flag value or the first line of stdin.
func readPassword(globals *Globals, password string) (string, error) {
	if password != "" {
		return password, nil
	}

	scanner := bufio.NewScanner(globals.in())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", errors.New("password is required")
	}

	password = strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
