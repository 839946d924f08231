package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogwire/blogwire/content"
)

func demoCmd(a *app) *cobra.Command {
	var count int
	var query, tag string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Browse a generated local feed without a server",
		Long: `Demo seeds an in-memory store with generated posts and prints
the feed. No server or login is involved; it exercises the same
filtering as the real feed.`,
		// Fully local; overrides the root pre-run so it runs without a
		// loadable config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			store := content.NewMemoryStore()
			content.Seed(store, count)

			posts, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			posts = content.Filter(posts, query, tag)
			if len(posts) == 0 {
				fmt.Println("No posts matched")
				return nil
			}
			for _, p := range posts {
				printPostLine(p)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of posts to generate")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match posts whose title or content contains this text")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Match posts carrying this tag")
	return cmd
}
