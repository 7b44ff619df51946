package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/poolcache/internal/config"
	"github.com/IvanBrykalov/poolcache/pool"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "tree <op>...",
		Short: "Replay allocations and print the buddy tree",
		Long: `The tree command replays a sequence of operations against a fresh arena and
prints the block status tree (E = empty, S = split, F = filled) after each one.

An operation is either a size to allocate ("17", "+17") or an offset to free ("-0").
Without --max-power the arena is 16 bytes, with 2-byte blocks unless --min-power is set.

Example:
  poolcache tree 17 1 9 -0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.OutOrStdout(), cfg, args)
		},
	})
}

func runTree(out io.Writer, cfg config.Config, ops []string) error {
	minP, maxP := cfg.MinPower, cfg.MaxPower
	if maxP == 0 {
		maxP = 4
		if minP == 0 {
			minP = 1
		}
	}
	p, err := pool.New(pool.Options{MinPower: minP, MaxPower: maxP, Logger: logger})
	if err != nil {
		return err
	}

	for _, op := range ops {
		if off, ok := strings.CutPrefix(op, "-"); ok {
			n, err := strconv.Atoi(off)
			if err != nil {
				return fmt.Errorf("tree: bad offset %q: %w", op, err)
			}
			before := p.Stats().LiveBlocks
			p.DeallocateOffset(n)
			if p.Stats().LiveBlocks == before {
				fmt.Fprintf(out, "free %d: no block\n", n)
			} else {
				fmt.Fprintf(out, "free %d\n", n)
			}
		} else {
			n, err := strconv.Atoi(strings.TrimPrefix(op, "+"))
			if err != nil {
				return fmt.Errorf("tree: bad size %q: %w", op, err)
			}
			b, err := p.Allocate(n)
			switch {
			case errors.Is(err, pool.ErrOutOfMemory):
				fmt.Fprintf(out, "alloc %d: %v\n", n, err)
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "alloc %d: offset %d (%s)\n", n, b.Offset(), humanize.IBytes(uint64(b.Size())))
			}
		}
		fmt.Fprint(out, p.Dump())
	}
	fmt.Fprintln(out, p.Stats())
	return p.Check()
}
