package flag

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type IntFlag struct {
	Name, Shorthand, Description string
	Required, Hidden             bool
	DefaultValue                 int
	// Min, when set, rejects smaller values at parse time
	Min *int
}

func (f IntFlag) Init(cmd *cobra.Command) error {
	cmd.Flags().IntP(f.Name, f.Shorthand, f.DefaultValue, f.Description)
	if err := setRequiredAndHidden(cmd, f.Name, f.Required, f.Hidden); err != nil {
		return err
	}

	return nil
}

func (f IntFlag) GetName() string {
	return f.Name
}

func (f IntFlag) ParseValue(v string) (interface{}, error) {
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	if f.Min != nil && i < *f.Min {
		return nil, fmt.Errorf("--%s must be at least %d, got %d", f.Name, *f.Min, i)
	}

	return i, nil
}
