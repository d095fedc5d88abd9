package types

import "time"

// AdminRow is one line of the global report
type AdminRow struct {
	Name string `json:"name"`
	AdminStats
	PerServer map[string]int `json:"per_server_ahelps"`
}

// DailyMatrix is an admins × dates table of ahelp counts. Counts[i][j] is
// the count of Admins[i] on Dates[j].
type DailyMatrix struct {
	Dates  []Date   `json:"dates"`
	Admins []string `json:"admins"`
	Counts [][]int  `json:"counts"`
}

// Total returns the sum of one admin's row.
func (m DailyMatrix) Total(row int) int {
	var total int
	for _, n := range m.Counts[row] {
		total += n
	}
	return total
}

type HourlyRow struct {
	Date      Date    `json:"date"`
	Hour      int     `json:"hour"`
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Rate      float64 `json:"rate"`
}

type ServerSummary struct {
	Name            string  `json:"name"`
	Chats           int     `json:"chats"`
	Admins          int     `json:"admins"`
	Ahelps          int     `json:"ahelps"`
	AdminOnlyAhelps int     `json:"admin_only_ahelps"`
	Requests        int     `json:"requests"`
	Processed       int     `json:"processed"`
	Rate            float64 `json:"rate"`
}

// RunSummary is the headline of one analysis run
type RunSummary struct {
	GeneratedAt     time.Time `json:"generated_at"`
	Files           int       `json:"files"`
	Servers         int       `json:"servers"`
	Admins          int       `json:"admins"`
	Ahelps          int       `json:"ahelps"`
	AdminOnlyAhelps int       `json:"admin_only_ahelps"`
	Chats           int       `json:"chats"`
	Requests        int       `json:"requests"`
	Processed       int       `json:"processed"`
}
