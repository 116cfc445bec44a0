package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/kiters/pkg/eid"
	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/timestamp"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kiters",
		Short:         "Generate request IDs, external IDs and UTC timestamps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRidCmd(), newEidCmd(), newNowCmd())
	return root
}

func newRidCmd() *cobra.Command {
	var (
		width string
		mixed bool
		count int
	)
	cmd := &cobra.Command{
		Use:   "rid",
		Short: "Print request IDs from a fresh counter",
		Long: `Print request IDs from a counter that starts at 1.

The counter lives only for this invocation, so plain IDs always start at
BAAAAA (narrow) or BAAAAAAAAAA (wide). Use --mixed to scramble them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := idgen.ParseWidth(width)
			if err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			gen, err := idgen.New(w, mixed)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				id := gen.NextID()
				if _, err := fmt.Fprintln(out, idgen.View(&id)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&width, "width", "w", "narrow", "ID width: narrow (6) or wide (11)")
	cmd.Flags().BoolVar(&mixed, "mixed", false, "Mix counter values before encoding")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of IDs to print")
	return cmd
}

func newEidCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "eid PREFIX",
		Short: "Print random external IDs of the form PREFIX-base36",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := eid.ValidatePrefix(args[0]); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), eid.New(args[0])); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of IDs to print")
	return cmd
}

func newNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Print the current UTC time as YYYY-MM-DDTHH:MM:SSZ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), timestamp.Now())
			return err
		},
	}
}
