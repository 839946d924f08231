package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blogwire/blogwire/content"
	"github.com/blogwire/blogwire/remote"
	"github.com/blogwire/blogwire/session"
	"github.com/blogwire/blogwire/webimport"
)

func postsCmd(a *app) *cobra.Command {
	var query, tag string

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))

			posts, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}

			posts = content.Filter(posts, query, tag)
			if len(posts) == 0 {
				fmt.Println("No posts found")
				return nil
			}
			for _, p := range posts {
				printPostLine(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match posts whose title or content contains this text")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Match posts carrying this tag")
	return cmd
}

func postCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "View and mutate individual posts",
	}
	cmd.AddCommand(
		postViewCmd(a),
		postCreateCmd(a),
		postEditCmd(a),
		postDeleteCmd(a),
		postLikeCmd(a),
		postCommentCmd(a),
		postImportCmd(a),
	)
	return cmd
}

func postViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show a post with its comments and likes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))

			post, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			printPost(post)
			return nil
		},
	}
}

func postCreateCmd(a *app) *cobra.Command {
	var title, body, tags string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Bootstrap(cmd.Context())
			actor, err := requireUser(a)
			if err != nil {
				return err
			}

			draft := content.Draft{
				Title:   title,
				Content: body,
				Tags:    content.ParseTags(tags),
			}

			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))
			post, err := store.Create(cmd.Context(), draft, actor)
			if err != nil {
				// Keep the attempted values visible so nothing typed is lost.
				fmt.Fprintf(cmd.ErrOrStderr(), "Attempted draft:\n  title: %s\n  content: %s\n  tags: %s\n",
					draft.Title, draft.Content, tags)
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Created post %s\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&body, "content", "", "Post content")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	return cmd
}

func postEditCmd(a *app) *cobra.Command {
	var title, body, tags string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a post you authored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Bootstrap(cmd.Context())
			actor, err := requireUser(a)
			if err != nil {
				return err
			}

			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))

			// Start from the current post so partial flags leave the
			// other fields alone.
			current, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}

			draft := content.Draft{
				Title:   current.Title,
				Content: current.Content,
				Tags:    current.Tags,
			}
			if title != "" {
				draft.Title = title
			}
			if body != "" {
				draft.Content = body
			}
			if tags != "" {
				draft.Tags = content.ParseTags(tags)
			}

			post, err := store.Edit(cmd.Context(), args[0], actor, draft)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Attempted draft:\n  title: %s\n  content: %s\n  tags: %s\n",
					draft.Title, draft.Content, strings.Join(draft.Tags, ", "))
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Updated post %s\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&body, "content", "", "New content")
	cmd.Flags().StringVar(&tags, "tags", "", "New comma-separated tags")
	return cmd
}

func postDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post you authored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Bootstrap(cmd.Context())
			actor, err := requireUser(a)
			if err != nil {
				return err
			}

			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))
			if err := store.Delete(cmd.Context(), args[0], actor); err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Deleted post %s\n", args[0])
			return nil
		},
	}
}

func postLikeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Toggle your like on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Bootstrap(cmd.Context())
			actor, err := requireUser(a)
			if err != nil {
				return err
			}

			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))
			post, err := store.ToggleLike(cmd.Context(), args[0], actor)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}

			if post.LikedBy(actor.ID) {
				fmt.Printf("Liked %q (%d likes)\n", post.Title, len(post.Likes))
			} else {
				fmt.Printf("Unliked %q (%d likes)\n", post.Title, len(post.Likes))
			}
			return nil
		},
	}
}

func postCommentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Bootstrap(cmd.Context())
			actor, err := requireUser(a)
			if err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))
			post, err := store.AddComment(cmd.Context(), args[0], actor, text)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Comment added (%d comments)\n", len(post.Comments))
			return nil
		},
	}
}

func postImportCmd(a *app) *cobra.Command {
	var tags string
	var publish bool

	cmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Draft a post from an external article",
		Long: `Import fetches a web page, extracts the readable article,
converts it to markdown, and prints the resulting draft. With
--publish the draft is created as a post instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := webimport.NewImporter(a.cfg.API.Timeout, "blogwire-import")
			draft, err := importer.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tags != "" {
				draft.Tags = content.ParseTags(tags)
			}

			if !publish {
				fmt.Printf("Title: %s\nTags: %s\n\n%s\n", draft.Title, strings.Join(draft.Tags, ", "), draft.Content)
				return nil
			}

			a.sessions.Bootstrap(cmd.Context())
			actor, err := requireUser(a)
			if err != nil {
				return err
			}

			store := remote.NewStore(a.client, a.sessions, remote.WithLogger(a.logger))
			post, err := store.Create(cmd.Context(), draft, actor)
			if err != nil {
				return fmt.Errorf("%s", session.Message(err))
			}
			fmt.Printf("Created post %s from %s\n", post.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "Override the suggested tags (comma-separated)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Create the post instead of printing the draft")
	return cmd
}

// requireUser returns the logged-in user as an author, or an error
// telling the user to log in.
func requireUser(a *app) (content.Author, error) {
	user := a.sessions.CurrentUser()
	if user == nil {
		return content.Author{}, fmt.Errorf("you need to log in first (run '%s login <email>')", appName)
	}
	return user.AsAuthor(), nil
}

func printPostLine(p *content.Post) {
	fmt.Printf("%s  %-40q by %s  %d likes, %d comments",
		p.ID, p.Title, p.Author.Username, len(p.Likes), len(p.Comments))
	if len(p.Tags) > 0 {
		fmt.Printf("  [%s]", strings.Join(p.Tags, ", "))
	}
	fmt.Println()
}

func printPost(p *content.Post) {
	fmt.Printf("%s\nby %s on %s\n", p.Title, p.Author.Username, p.CreatedAt.Format("2006-01-02 15:04"))
	if len(p.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Printf("\n%s\n\n%d likes\n", p.Content, len(p.Likes))

	fmt.Printf("Comments (%d):\n", len(p.Comments))
	for _, c := range p.Comments {
		fmt.Printf("  %s (%s): %s\n", c.Author.Username, c.CreatedAt.Format("2006-01-02 15:04"), c.Text)
	}
}
