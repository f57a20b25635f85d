package main

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	preview := flag.Int("preview", 40, "Maximum characters of content shown per row")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Seq", "Type", "Time", "Sender", "Content", "File"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = repositories.ScanRecords(db, func(_ string, record repositories.PersistedRecord) error {
		count++
		table.Append([]string{
			strconv.FormatUint(record.Sequence, 10),
			colorKind(record.Kind),
			time.UnixMilli(record.Timestamp).Format("2006-01-02 15:04:05"),
			record.Sender,
			truncate(record.Content, *preview),
			fileSummary(record),
		})
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.Gray.Printf("%d stored messages\n", count)
}

func colorKind(kind domain.Kind) string {
	switch kind {
	case domain.KindChat:
		return color.Green.Sprint(kind)
	case domain.KindFile:
		return color.Cyan.Sprint(kind)
	default:
		return color.Yellow.Sprint(kind)
	}
}

func fileSummary(record repositories.PersistedRecord) string {
	if record.FileContent == "" {
		return ""
	}
	return fmt.Sprintf("%s (%d b64 chars)", record.FileType, len(record.FileContent))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
