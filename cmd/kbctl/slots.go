package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kredenk/shiguang-warehouse/internal/service"
)

func slotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "slots [standard|summer]",
		Short:     "打印内置作息时间表",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(service.RegimeStandard), string(service.RegimeSummer)},
		RunE: func(cmd *cobra.Command, args []string) error {
			regimes := service.Regimes
			if len(args) == 1 {
				r := service.TimeSlotRegime(args[0])
				if !r.Valid() {
					return fmt.Errorf("未知作息方案 %q，可选 standard 或 summer", args[0])
				}
				regimes = []service.TimeSlotRegime{r}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, r := range regimes {
				if i > 0 {
					fmt.Fprintln(tw)
				}
				fmt.Fprintf(tw, "# %s (%s)\n", r.Label(), r)
				slots, _ := service.PresetTimeSlots(r)
				for _, s := range slots {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Number, s.StartTime, s.EndTime)
				}
			}
			return tw.Flush()
		},
	}
}
