package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/speakeasy-api/mergerepo/internal/charm/styles"
	"github.com/speakeasy-api/mergerepo/internal/config"
	"github.com/speakeasy-api/mergerepo/internal/log"
	"github.com/speakeasy-api/mergerepo/internal/merge"
	"github.com/speakeasy-api/mergerepo/internal/model"
	"github.com/speakeasy-api/mergerepo/internal/model/flag"
	"github.com/speakeasy-api/mergerepo/internal/utils"
)

type MergeFlags struct {
	Exclude     []string      `json:"exclude"`
	Workers     int           `json:"workers"`
	Output      string        `json:"output"`
	Atomic      bool          `json:"atomic"`
	LockTimeout time.Duration `json:"lock-timeout"`
}

const mergeLong = `Merge two snapshots of the same repository into a third directory.

The destination is rebuilt from scratch on every run: it starts as a full copy of
the previous version (version-control metadata such as .svn/ and CVS/ included),
files removed in the newer version are deleted, and files added or modified in the
newer version are copied over. Files whose only difference is the line-ending
style are left untouched.

Arguments:
  previous      the directory holding the older snapshot, e.g. a Subversion checkout
  newer         the directory holding the newer snapshot, e.g. a Perforce export
  destination   the directory the merged snapshot is written to`

func mergeCmd() model.ExecutableCommand[MergeFlags] {
	return model.ExecutableCommand[MergeFlags]{
		Usage: "mergerepo <previous> <newer> <destination>",
		Short: "Merge a newer snapshot of a repository over a previous one",
		Long:  mergeLong,
		Args:  exactRoots("previous", "newer", "destination"),
		Run:   runMerge,
		Flags: append(commonFlags(),
			flag.BooleanFlag{
				Name:         "atomic",
				Description:  "build the merged tree next to the destination and swap it into place only once it is complete",
				DefaultValue: config.GetAtomic(),
			},
			flag.DurationFlag{
				Name:         "lock-timeout",
				Description:  "how long to wait for another merge into the same destination to finish",
				DefaultValue: config.GetLockTimeout(),
			},
		),
	}
}

// commonFlags are shared by merge and diff.
func commonFlags() []flag.Flag {
	return []flag.Flag{
		flag.StringSliceFlag{
			Name:         "exclude",
			Shorthand:    "x",
			Description:  "gitignore-style patterns skipped when comparing the two versions",
			DefaultValue: config.GetExcludes(),
		},
		flag.IntFlag{
			Name:         "workers",
			Shorthand:    "w",
			Description:  "number of files compared and copied concurrently",
			DefaultValue: config.GetWorkers(),
			Min:          lo.ToPtr(1),
		},
		flag.EnumFlag{
			Name:          "output",
			Shorthand:     "o",
			Description:   "report format",
			AllowedValues: log.Formats,
			DefaultValue:  log.FormatText,
		},
	}
}

func runMerge(ctx context.Context, flags MergeFlags, args []string) error {
	report, err := merge.Merge(ctx, merge.Options{
		PreviousRoot:    args[0],
		NewerRoot:       args[1],
		DestinationRoot: args[2],
		Excludes:        flags.Exclude,
		Workers:         flags.Workers,
		Atomic:          flags.Atomic,
		LockTimeout:     flags.LockTimeout,
	})
	if err != nil {
		return err
	}

	if err := printReport(ctx, report, flags.Output); err != nil {
		return err
	}

	l := log.From(ctx)
	if utils.IsInteractive() && flags.Output == log.FormatText {
		l.PrintlnUnstyled(styles.RenderSuccessMessage(
			"Done merging.",
			fmt.Sprintf("%d removed, %d added, %d modified", len(report.Removed), len(report.Added), len(report.Modified)),
			report.Destination,
		))
		return nil
	}

	l.Success("Done merging.")

	return nil
}
