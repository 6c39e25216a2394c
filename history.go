package main

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"

	"github.com/gentoomaniac/filearchiver/pkg/db"
	"github.com/gentoomaniac/filearchiver/pkg/fsutil"
)

type History struct {
	Directory string `arg:"" optional:"" help:"Only show runs for this directory."`
	Limit     int    `short:"n" help:"Number of runs to show, 0 for all." default:"20"`
	DBPath    string `name:"db" help:"sqlite file recording every processed directory." env:"FILEARCHIVER_DB" type:"path" required:""`
}

func history(params *History) int {
	log.Debug().Str("db", params.DBPath).Msg("history called")
	database, err := db.NewSQLLite(params.DBPath)
	if err == nil {
		err = database.Init()
	}
	if err != nil {
		log.Error().Err(err).Msg("failed opening catalog")
		return 1
	}
	defer database.Close()

	var runs []*db.Run
	if params.Directory != "" {
		runs, err = database.GetRunsForDirectory(params.Directory)
		if err == nil && params.Limit > 0 && len(runs) > params.Limit {
			runs = runs[:params.Limit]
		}
	} else {
		runs, err = database.GetRuns(params.Limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed getting runs")
		return 1
	}

	renderHistory(os.Stdout, runs)
	return 0
}

func renderHistory(w io.Writer, runs []*db.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Date", "Directory", "Status", "Original", "Archived", "Message"})
	table.SetAutoWrapText(false)

	for _, run := range runs {
		original, archived := "", ""
		if run.Status == db.StatusSuccess {
			original = fsutil.ReadableSize(run.OriginalSize)
			archived = fsutil.ReadableSize(run.ArchiveSize)
		}
		table.Append([]string{
			strconv.FormatInt(run.ID, 10),
			time.Unix(run.Created, 0).Format("2006-01-02 15:04"),
			run.Directory,
			string(run.Status),
			original,
			archived,
			run.Message,
		})
	}
	table.Render()
}
