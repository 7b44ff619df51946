package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/poolcache/cache"
	"github.com/IvanBrykalov/poolcache/internal/config"
	"github.com/IvanBrykalov/poolcache/pool"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Read keys from stdin and report repeats",
		Long: `The demo command reads one key per line from stdin and looks it up in the
cache. A line whose value is still resident and was seen before prints "known".
At EOF the cache contents are printed front to back ("*" marks referenced entries).

Example:
  printf 'a\nb\na\n' | poolcache demo --capacity 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, logger)
		},
	})
}

// line is the demo value: the text of a line and whether it was seen while resident.
type line struct {
	text   string
	marked bool
}

func (l line) Equal(k string) bool { return l.text == k }
func (l line) String() string      { return l.text }

func runDemo(in io.Reader, out io.Writer, cfg config.Config, logger *log.Logger) error {
	c, arena, err := cache.NewPooled(cache.Options[string, line]{
		Capacity: cfg.Capacity,
		New:      func(k string) line { return line{text: k} },
		Policy:   policyFor[string, line](cfg.Policy, cfg.Capacity),
		Logger:   logger,
	}, pool.Options{MinPower: cfg.MinPower, MaxPower: cfg.MaxPower, Logger: logger})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	logger.Debug("arena ready", "stats", arena.Stats().String())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		l, err := c.Get(sc.Text())
		if err != nil {
			return fmt.Errorf("get %q: %w", sc.Text(), err)
		}
		if l.marked {
			fmt.Fprintln(out, "known")
		}
		l.marked = true
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintln(out)
	if _, err := c.WriteTo(out); err != nil {
		return err
	}
	logger.Info("arena", "stats", arena.Stats().String())
	return nil
}
