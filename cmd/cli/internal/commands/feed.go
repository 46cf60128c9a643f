package commands

import (
	"context"
	"fmt"
	"strings"
)

type FeedCmd struct {
	List    FeedListCmd    `cmd:"" default:"withargs" help:"Show the community feed"`
	Post    FeedPostCmd    `cmd:"" help:"Publish a post"`
	Like    FeedLikeCmd    `cmd:"" help:"Like or unlike a post"`
	Comment FeedCommentCmd `cmd:"" help:"Comment on a post"`
}

type FeedListCmd struct {
	Limit int `help:"Number of posts to show (0 for all)" default:"20"`
}

func (f *FeedListCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	posts, err := api.Posts(ctx)
	if err != nil {
		return apiError("fetch posts", err)
	}

	out := globals.out()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts yet.")
		return nil
	}

	if f.Limit > 0 && len(posts) > f.Limit {
		posts = posts[:f.Limit]
	}

	for _, p := range posts {
		liked := ""
		if p.IsLiked {
			liked = " (liked)"
		}
		fmt.Fprintf(out, "[%s] %s · %s\n", p.ID, p.Author.Name, p.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  %s\n", p.Content)
		fmt.Fprintf(out, "  %d likes%s, %d comments\n\n", p.LikesCount, liked, max(p.CommentsCount, len(p.Comments)))
	}
	return nil
}

type FeedPostCmd struct {
	Content []string `arg:"" help:"Post text"`
}

func (f *FeedPostCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	post, err := api.CreatePost(ctx, strings.Join(f.Content, " "))
	if err != nil {
		return apiError("create post", err)
	}

	fmt.Fprintf(globals.out(), "Posted %s\n", post.ID)
	return nil
}

type FeedLikeCmd struct {
	ID string `arg:"" help:"Post ID"`
}

func (f *FeedLikeCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	res, err := api.LikePost(ctx, f.ID)
	if err != nil {
		return apiError("like post", err)
	}

	verb := "Unliked"
	if res.IsLiked {
		verb = "Liked"
	}
	fmt.Fprintf(globals.out(), "%s post %s (%d likes)\n", verb, f.ID, res.LikesCount)
	return nil
}

type FeedCommentCmd struct {
	ID      string   `arg:"" help:"Post ID"`
	Content []string `arg:"" help:"Comment text"`
}

func (f *FeedCommentCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	if err := api.CommentOnPost(ctx, f.ID, strings.Join(f.Content, " ")); err != nil {
		return apiError("comment on post", err)
	}

	fmt.Fprintf(globals.out(), "Commented on post %s\n", f.ID)
	return nil
}
