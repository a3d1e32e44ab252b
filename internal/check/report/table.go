package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== QADO Query Check ===\n\n")
	fmt.Fprintf(tw, "Run:\t%s\n", r.Meta.RunID)
	fmt.Fprintf(tw, "Workers:\t%d\n", r.Meta.Workers)
	fmt.Fprintf(tw, "Duration:\t%s\n", fmtDuration(r.Meta.Duration))
	if r.Meta.DryRun {
		fmt.Fprintf(tw, "Mode:\tdry run (nothing written)\n")
	}
	fmt.Fprintln(tw)

	writeSummary(tw, r)
	writeEndpointTable(tw, r.Endpoints)
	writeWriteErrors(tw, r.Checks)

	tw.Flush()
}

func writeSummary(tw *tabwriter.Writer, r *Report) {
	s := r.Summary
	writeRow(tw, "Total", "Succeeded", "Failed", "Unresolved", "Write errors")
	writeSeparator(tw, 5)
	writeRow(tw,
		fmt.Sprintf("%d", s.Total),
		fmt.Sprintf("%d", s.Succeeded),
		fmt.Sprintf("%d", s.Failed),
		fmt.Sprintf("%d", s.Unresolved),
		fmt.Sprintf("%d", s.WriteErrors),
	)
	fmt.Fprintln(tw)
}

func writeEndpointTable(tw *tabwriter.Writer, endpoints []EndpointEntry) {
	if len(endpoints) == 0 {
		return
	}
	fmt.Fprintf(tw, "Endpoints\n\n")

	header := []string{"Endpoint", "Attempts", "Confirmed", "Rejected", "Inconclusive", "Timeouts", "Min", "p50", "p95", "Max"}
	writeRow(tw, header...)
	writeSeparator(tw, len(header))

	for _, e := range endpoints {
		writeRow(tw,
			e.Name,
			fmt.Sprintf("%d", e.Attempts),
			fmt.Sprintf("%d", e.Confirmed),
			fmt.Sprintf("%d", e.Rejected),
			fmt.Sprintf("%d", e.Inconclusive),
			fmt.Sprintf("%d", e.Timeouts),
			fmtDuration(e.Latency.Min),
			fmtDuration(e.Latency.Median),
			fmtDuration(e.Latency.P95),
			fmtDuration(e.Latency.Max),
		)
	}
	fmt.Fprintln(tw)
}

func writeWriteErrors(tw *tabwriter.Writer, checks []CheckEntry) {
	var failed []CheckEntry
	for _, c := range checks {
		if c.WriteError != "" {
			failed = append(failed, c)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(tw, "Unwritten checks\n\n")
	writeRow(tw, "Query", "Property", "Error")
	writeSeparator(tw, 3)
	for _, c := range failed {
		writeRow(tw, c.QueryID, c.Property, c.WriteError)
	}
	fmt.Fprintln(tw)
}

func writeRow(tw *tabwriter.Writer, cells ...string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

func writeSeparator(tw *tabwriter.Writer, n int) {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(tw, sep...)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
