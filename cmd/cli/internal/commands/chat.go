package commands

import (
	"context"
	"fmt"
	"strings"
)

type ChatCmd struct {
	Message []string `arg:"" help:"Question for the sustainability assistant"`
}

func (c *ChatCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	reply, err := api.Chat(ctx, strings.Join(c.Message, " "))
	if err != nil {
		return apiError("reach the assistant", err)
	}

	fmt.Fprintln(globals.out(), reply)
	return nil
}
