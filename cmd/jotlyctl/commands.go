package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"io.winapps.jotly/internal/client"
	createmodels "io.winapps.jotly/internal/models/create_entry"
	models "io.winapps.jotly/internal/models/journal"
	updatemodels "io.winapps.jotly/internal/models/update_entry"
)

// serverEnv overrides the default server base URL.
const serverEnv = "JOTLY_SERVER"

type cli struct {
	out    io.Writer
	server string
	newAPI func(baseURL string) *client.API
	store  *client.Store
}

// rootCommand creates and returns the root command
func rootCommand(out io.Writer, newAPI func(string) *client.API) *cobra.Command {
	c := &cli{out: out, newAPI: newAPI}

	rootCmd := &cobra.Command{
		Use:           "jotlyctl",
		Short:         "Jotly mood journal CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.store = client.NewStore(c.newAPI(c.server))
		},
	}

	defaultServer := os.Getenv(serverEnv)
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&c.server, "server", defaultServer, "API base URL (env "+serverEnv+")")

	rootCmd.AddCommand(
		c.listCommand(),
		c.addCommand(),
		c.editCommand(),
		c.rmCommand(),
		c.statsCommand(),
		c.tagsCommand(),
	)
	rootCmd.SetOut(out)
	return rootCmd
}

func (c *cli) listCommand() *cobra.Command {
	var criteria client.SearchCriteria
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !criteria.Structured() {
				if err := c.store.FetchEntries(ctx); err != nil {
					return err
				}
			}
			entries, err := c.store.SearchEntries(ctx, criteria)
			if err != nil {
				return err
			}
			c.printEntries(entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&criteria.Mood, "mood", "", "only entries with this mood")
	cmd.Flags().StringVar(&criteria.Tag, "tag", "", "only entries carrying this tag")
	cmd.Flags().StringVar(&criteria.StartDate, "from", "", "start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&criteria.EndDate, "to", "", "end date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&criteria.Text, "search", "", "case-insensitive text match on note and tags")
	return cmd
}

func (c *cli) addCommand() *cobra.Command {
	var req createmodels.CreateEntryRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.store.CreateEntry(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "created %s\n", e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Mood, "mood", "", "mood emoji (required)")
	cmd.Flags().StringVar(&req.Note, "note", "", "note text (required)")
	cmd.Flags().StringVar(&req.Date, "date", "", "entry date, defaults to now")
	cmd.Flags().StringArrayVar(&req.Tags, "tag", nil, "tag, repeatable")
	_ = cmd.MarkFlagRequired("mood")
	_ = cmd.MarkFlagRequired("note")
	return cmd
}

func (c *cli) editCommand() *cobra.Command {
	var (
		mood, note, date string
		tags             []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req updatemodels.UpdateEntryRequest
			flags := cmd.Flags()
			if flags.Changed("mood") {
				req.Mood = &mood
			}
			if flags.Changed("note") {
				req.Note = &note
			}
			if flags.Changed("date") {
				req.Date = &date
			}
			if flags.Changed("tag") {
				req.Tags = &tags
			}
			if req.Mood == nil && req.Note == nil && req.Date == nil && req.Tags == nil {
				return fmt.Errorf("nothing to change: pass at least one of --mood, --note, --date, --tag")
			}

			e, err := c.store.UpdateEntry(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "updated %s\n", e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "new mood")
	cmd.Flags().StringVar(&note, "note", "", "new note")
	cmd.Flags().StringVar(&date, "date", "", "new date")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "replacement tags, repeatable")
	return cmd
}

func (c *cli) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.store.DeleteEntry(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mood counts and a monthly summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.store.FetchEntries(ctx); err != nil {
				return err
			}
			if err := c.store.FetchMoodStats(ctx); err != nil {
				return err
			}

			st := c.store.State()
			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MOOD\tCOUNT")
			for _, ms := range st.MoodStats {
				fmt.Fprintf(tw, "%s\t%d\n", ms.Mood, ms.Count)
			}
			_ = tw.Flush()

			sum := c.store.Summary(time.Now())
			fmt.Fprintf(c.out, "\ntotal: %d  this month: %d  avg per mood: %.1f\n",
				sum.TotalEntries, sum.EntriesThisMonth, sum.AverageMoodCount)
			return nil
		},
	}
}

func (c *cli) tagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := c.newAPI(c.server).UniqueTags(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(c.out, t)
			}
			return nil
		},
	}
}

func (c *cli) printEntries(entries []models.Entry) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tMOOD\tTAGS\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format("2006-01-02"), e.Mood, strings.Join(e.Tags, ","), firstLine(e.Note, 60))
	}
	_ = tw.Flush()
	fmt.Fprintf(c.out, "%d entries\n", len(entries))
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
