package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ReportsCmd struct {
	configPath string
	factory    RegistryFactory
}

// NewReportsCmd lists the registered reports and their descriptions.
func NewReportsCmd(factory RegistryFactory) *cobra.Command {
	lc := &ReportsCmd{factory: factory}
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List available reports",
		RunE:  lc.run,
	}

	cmd.Flags().StringVar(&lc.configPath, "config", "", "Path to the configuration profile")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (lc *ReportsCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := lc.factory(lc.configPath)
	if err != nil {
		return err
	}

	for _, meta := range registry.List() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s [%s] %s\n", meta.Slug, meta.Group, meta.Description)
	}
	return nil
}
