package commands

import (
	"github.com/spf13/cobra"

	"github.com/wc-tools/camp-reports/pkg/reports"
	"github.com/wc-tools/camp-reports/pkg/runtime/terminal/export"
)

// RegistryFactory builds a report registry from a configuration profile.
type RegistryFactory func(configPath string) (reports.Registry, error)

type RunCmd struct {
	configPath string
	report     string
	startDate  string
	endDate    string
	campID     int64
	status     string
	format     string
	refresh    bool
	noCache    bool

	factory  RegistryFactory
	reporter *export.Reporter
}

func NewRunCmd(factory RegistryFactory, reporter *export.Reporter) *cobra.Command {
	rc := &RunCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a report for a date window",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.configPath, "config", "", "Path to the configuration profile")
	cmd.Flags().StringVar(&rc.report, "report", "", "Report slug (e.g. ticket-revenue)")
	cmd.Flags().StringVar(&rc.startDate, "start", "", "Start of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.endDate, "end", "", "End of the date range (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&rc.campID, "camp-id", 0, "Restrict the report to one camp")
	cmd.Flags().StringVar(&rc.status, "status", "", "Status filter, where supported")
	cmd.Flags().StringVar(&rc.format, "format", export.FormatTable, "Output format: table, csv or json")
	cmd.Flags().BoolVar(&rc.refresh, "refresh", false, "Flush any cached result before running")
	cmd.Flags().BoolVar(&rc.noCache, "no-cache", false, "Bypass the report cache entirely")

	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := rc.factory(rc.configPath)
	if err != nil {
		return err
	}

	report, err := registry.Get(rc.report)
	if err != nil {
		return err
	}

	data, errs := report.Run(cmd.Context(), reports.Request{
		StartDate:    rc.startDate,
		EndDate:      rc.endDate,
		ScopeID:      rc.campID,
		Status:       rc.status,
		CacheEnabled: !rc.noCache,
		FlushCache:   rc.refresh,
	})

	return rc.reporter.Render(rc.format, rc.report, data, errs.Errors())
}
