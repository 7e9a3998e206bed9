package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
)

var (
	priceColor = color.New(color.FgGreen)
	freeColor  = color.New(color.FgCyan, color.Bold)
	idColor    = color.New(color.FgHiBlack)
)

func printSearch(w io.Writer, entries []domain.SuggestionEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, format.NothingFound)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "App ID", "Name", "Price", "Link"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(entries))
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			idColor.Sprint(e.AppID),
			e.Name,
			colorPrice(e.Price),
			e.Href,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func colorPrice(price string) string {
	switch price {
	case "":
		return "-"
	case "Free", "Free to Play":
		return freeColor.Sprint(price)
	default:
		return priceColor.Sprint(price)
	}
}

func printStats(w io.Writer, m *metrics.InMemoryMetrics) error {
	counters := m.GetCounters()
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Counter", "Value"})
	data := make([][]string, 0, len(names))
	for _, name := range names {
		data = append(data, []string{name, strconv.FormatInt(counters[name], 10)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
