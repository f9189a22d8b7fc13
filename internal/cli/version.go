package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version": Version,
					"go":      runtime.Version(),
				})
			}
			output.Printf("sofr-analyzer %s (%s)\n", Version, runtime.Version())
			return nil
		},
	}
}
