package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rutero-ai/rutero/internal/agent/core"
)

func planCMD() *cobra.Command {
	var cfgPath string
	var budget float64
	var days int
	var prefs []string

	plan := &cobra.Command{
		Use:   "plan [query]",
		Short: "Submit a single planning request and print the answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := "Plan a 3-day trip to Madrid with flights, activities and weather."
			if len(args) > 0 {
				query = strings.Join(args, " ")
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, cfgPath)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			if a.cfg.General.MaxProcessingTime > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.General.MaxProcessingTime)
				defer cancel()
			}

			res, err := a.dispatcher.Invoke(ctx, core.Request{
				Query:       query,
				Budget:      budget,
				Days:        days,
				Preferences: prefs,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Answer)
			fmt.Fprintf(cmd.OutOrStdout(), "\n[%s] %d tool calls, %d tokens, %s\n",
				strings.Join(res.WorkersUsed, ", "), len(res.Trace.Invocations),
				res.TokensUsed, res.ProcessingTime)
			return nil
		},
	}
	plan.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	plan.Flags().Float64Var(&budget, "budget", 0, "total budget in USD")
	plan.Flags().IntVar(&days, "days", 0, "trip length in days")
	plan.Flags().StringSliceVar(&prefs, "prefer", nil, "preferred activity categories")

	return plan
}
