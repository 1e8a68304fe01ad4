package cmd

import (
	"context"

	"github.com/speakeasy-api/mergerepo/internal/merge"
	"github.com/speakeasy-api/mergerepo/internal/model"
	"github.com/speakeasy-api/mergerepo/internal/model/flag"
)

type DiffFlags struct {
	Exclude []string `json:"exclude"`
	Workers int      `json:"workers"`
	Output  string   `json:"output"`
	Patch   bool     `json:"patch"`
}

func diffCmd() model.ExecutableCommand[DiffFlags] {
	return model.ExecutableCommand[DiffFlags]{
		Usage: "diff <previous> <newer>",
		Short: "Report what a merge would change without writing anything",
		Long:  "Compare two snapshots of the same repository and report the removed, added and modified files. Nothing is written to disk.",
		Args:  exactRoots("previous", "newer"),
		Run:   runDiff,
		Flags: append(commonFlags(),
			flag.BooleanFlag{
				Name:        "patch",
				Shorthand:   "p",
				Description: "include a unified diff of every modified file",
			},
		),
	}
}

func runDiff(ctx context.Context, flags DiffFlags, args []string) error {
	report, err := merge.Diff(ctx, merge.Options{
		PreviousRoot: args[0],
		NewerRoot:    args[1],
		Excludes:     flags.Exclude,
		Workers:      flags.Workers,
		Patch:        flags.Patch,
	})
	if err != nil {
		return err
	}

	return printReport(ctx, report, flags.Output)
}
