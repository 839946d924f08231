package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/blogwire/blogwire/content"
	"github.com/blogwire/blogwire/live"
	"github.com/blogwire/blogwire/remote"
	"github.com/blogwire/blogwire/session"
)

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <post-id>",
		Short: "Follow a post's comments live until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			postID := args[0]
			a.sessions.Bootstrap(ctx)

			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))
			post, err := store.Get(ctx, postID)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			printPost(post)

			nc, err := nats.Connect(a.cfg.Live.URL, nats.Name(appName))
			if err != nil {
				return fmt.Errorf("connect to push channel: %w", err)
			}
			defer nc.Close()

			listener := live.NewListener(nc, postID, &announcingSink{view: store.View()}, live.WithLogger(a.logger))
			if err := listener.Start(ctx); err != nil {
				return err
			}
			defer listener.Stop()

			// Pick up logins/logouts done by other blogwire processes
			// while we sit here.
			go func() {
				if err := a.sessions.Watch(ctx); err != nil && ctx.Err() == nil {
					a.logger.Warn("session watch stopped", "error", err)
				}
			}()

			fmt.Println("\nWatching for new comments (Ctrl-C to stop)...")
			<-ctx.Done()
			return nil
		},
	}
}

// announcingSink merges live comments into the store view and prints
// each one the first time it is seen.
type announcingSink struct {
	view *content.MemoryStore
}

func (s *announcingSink) MergeComment(postID string, c content.Comment) bool {
	if !s.view.MergeComment(postID, c) {
		return false
	}
	fmt.Printf("  %s (%s): %s\n", c.Author.Username, c.CreatedAt.Format("15:04:05"), c.Text)
	return true
}
