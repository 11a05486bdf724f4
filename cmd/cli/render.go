package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mauv0809/padel-ratings/internal/queue"
	"github.com/mauv0809/padel-ratings/internal/stats"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func renderLeaderboard(w io.Writer, board []stats.PlayerSummary) {
	table := newTable(w)
	table.Header("#", "PLAYER", "RATING", "GAMES", "WINS", "WIN%", "POINTS", "AVG DIFF")
	for i, p := range board {
		name := p.Name
		if name == "" {
			name = strconv.FormatInt(p.PlayerID, 10)
		}
		table.Append(
			strconv.Itoa(i+1),
			name,
			fmt.Sprintf("%.1f", p.CurrentRating),
			strconv.Itoa(p.Games),
			strconv.Itoa(p.Wins),
			fmt.Sprintf("%.0f%%", p.WinRate*100),
			strconv.Itoa(p.Points),
			fmt.Sprintf("%+.2f", p.AvgPointDiff),
		)
	}
	table.Render()
}

func renderPairs(w io.Writer, pairs []stats.PairStats) {
	table := newTable(w)
	table.Header("WITH", "GAMES", "WINS", "WIN%", "AVG DIFF")
	for _, p := range pairs {
		table.Append(
			strconv.FormatInt(p.OtherPlayerID, 10),
			strconv.Itoa(p.Games),
			strconv.Itoa(p.Wins),
			fmt.Sprintf("%.0f%%", p.WinRate*100),
			fmt.Sprintf("%+.2f", p.AvgPointDiff),
		)
	}
	table.Render()
}

func renderStatus(w io.Writer, snapshot *queue.StatusSnapshot) {
	var jobs []queue.Job
	if snapshot.Running != nil {
		jobs = append(jobs, *snapshot.Running)
	}
	jobs = append(jobs, snapshot.Pending...)
	jobs = append(jobs, snapshot.RecentCompleted...)
	jobs = append(jobs, snapshot.RecentFailed...)
	renderJobs(w, jobs)
}

func renderJobs(w io.Writer, jobs []queue.Job) {
	table := newTable(w)
	table.Header("JOB", "SCOPE", "STATUS", "CREATED", "DURATION", "ERROR")
	for _, j := range jobs {
		table.Append(j.ID, j.Scope(), string(j.Status), j.CreatedAt.Local().Format(time.DateTime), jobDuration(j), j.ErrorMessage)
	}
	table.Render()
}

func jobDuration(j queue.Job) string {
	if j.StartedAt == nil {
		return "-"
	}
	end := time.Now()
	if j.CompletedAt != nil {
		end = *j.CompletedAt
	}
	return end.Sub(*j.StartedAt).Round(time.Millisecond).String()
}
