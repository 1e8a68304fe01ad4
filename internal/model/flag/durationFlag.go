package flag

import (
	"time"

	"github.com/spf13/cobra"
)

type DurationFlag struct {
	Name, Shorthand, Description string
	Required, Hidden             bool
	DefaultValue                 time.Duration
}

func (f DurationFlag) Init(cmd *cobra.Command) error {
	cmd.Flags().DurationP(f.Name, f.Shorthand, f.DefaultValue, f.Description)
	return setRequiredAndHidden(cmd, f.Name, f.Required, f.Hidden)
}

func (f DurationFlag) GetName() string {
	return f.Name
}

func (f DurationFlag) ParseValue(v string) (interface{}, error) {
	return time.ParseDuration(v)
}
