package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"transition-lab/trace"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

// Options tunes the rendering, independent of the positional flags.
type Options struct {
	// INSPECT_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	dbPath := flag.String("db", "/tmp/transition-lab", "Path to badger trace DB")
	limit := flag.Int("limit", 50, "Maximum number of traces to display")
	flag.Parse()

	var opts Options
	if err := envconfig.Process("", &opts); err != nil {
		log.Fatal("Error while reading options: ", err)
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := trace.NewBatchRepository(db, slog.Default())
	records, err := repository.List(*limit)
	if err != nil {
		log.Fatal("Error while scanning traces: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Batch ID", "Outcome", "Animated", "Participants", "Kinds", "Lead Time"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, record := range records {
		table.Append([]string{
			record.ID.String()[:8],
			outcome(record, opts.Colours),
			fmt.Sprintf("%t", record.Animated),
			fmt.Sprintf("%d", len(record.Participants)),
			kinds(record),
			record.LeadTime().String(),
		})
	}
	table.Render()
}

func outcome(record trace.BatchRecord, colours bool) string {
	if !colours {
		return record.Outcome
	}
	if record.Outcome == "aborted" {
		return color.Red.Sprint(record.Outcome)
	}
	return color.Green.Sprint(record.Outcome)
}

func kinds(record trace.BatchRecord) string {
	parts := make([]string, 0, len(record.Participants))
	for _, p := range record.Participants {
		parts = append(parts, fmt.Sprintf("%s:%s", p.Key, p.Kind))
	}
	return strings.Join(parts, " ")
}
