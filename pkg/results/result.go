package result

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-bulldozer/memperf/pkg/logging"
	"github.com/cloud-bulldozer/memperf/pkg/metrics"
	"github.com/cloud-bulldozer/memperf/pkg/sample"
	math "github.com/aclements/go-moremath/stats"
	stats "github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Specify Language specific case wrapper as global variable
var caser = cases.Title(language.English)

// Data describes the result of one grid cell
type Data struct {
	Size              int
	Workers           int
	Repetitions       int
	ChunkSize         int
	Mean              time.Duration
	Throughput        float64
	DurationSummary   []float64
	ThroughputSummary []float64
	StartTime         time.Time
	EndTime           time.Time
}

// ScenarioResults holds every cell of a sweep, in measurement order
type ScenarioResults struct {
	Results []Data
	Metadata
}

// Metadata for the run
type Metadata struct {
	Node        metrics.NodeInfo `json:"node"`
	Version     string           `json:"version"`
	GitCommit   string           `json:"gitCommit"`
	Repetitions int              `json:"repetitions"`
	ChunkSize   int              `json:"chunkSize"`
	MinWorkers  int              `json:"minWorkers"`
	MaxWorkers  int              `json:"maxWorkers"`
}

// NewData converts a measurement into a grid cell
func NewData(m sample.Measurement, chunkSize int, start, end time.Time) Data {
	return Data{
		Size:              m.Size,
		Workers:           m.Workers,
		Repetitions:       m.Repetitions,
		ChunkSize:         chunkSize,
		Mean:              m.Mean,
		Throughput:        m.Throughput,
		DurationSummary:   m.Durations(),
		ThroughputSummary: m.Throughputs(),
		StartTime:         start,
		EndTime:           end,
	}
}

// Average accepts array of floats to calculate average
func Average(vals []float64) (float64, error) {
	return stats.Mean(vals)
}

// Percentile accepts array of floats and the desired %tile to calculate
func Percentile(vals []float64, ptile float64) (float64, error) {
	return stats.Percentile(vals, ptile)
}

// StandardDeviation accepts array of floats to calculate the population deviation
func StandardDeviation(vals []float64) (float64, error) {
	return stats.StandardDeviation(vals)
}

// ConfidenceInterval accepts array of floats to calculate the mean and its interval
func ConfidenceInterval(vals []float64, ci float64) (float64, float64, float64) {
	return math.MeanCI(vals, ci)
}

// BlockSizes returns the distinct block sizes in measurement order
func BlockSizes(s ScenarioResults) []int {
	var sizes []int
	seen := map[int]bool{}
	for _, r := range s.Results {
		if !seen[r.Size] {
			seen[r.Size] = true
			sizes = append(sizes, r.Size)
		}
	}
	return sizes
}

// WorkerCounts returns the distinct worker counts in ascending order
func WorkerCounts(s ScenarioResults) []int {
	var workers []int
	seen := map[int]bool{}
	for _, r := range s.Results {
		if !seen[r.Workers] {
			seen[r.Workers] = true
			workers = append(workers, r.Workers)
		}
	}
	sort.Ints(workers)
	return workers
}

// Lookup finds the cell for a block size and worker count
func Lookup(s ScenarioResults, size, workers int) (Data, bool) {
	for _, r := range s.Results {
		if r.Size == size && r.Workers == workers {
			return r, true
		}
	}
	return Data{}, false
}

// Speedup returns the throughput of d relative to the single worker cell of
// the same block size, or 0 when there is no such cell.
func Speedup(s ScenarioResults, d Data) float64 {
	base, ok := Lookup(s, d.Size, 1)
	if !ok || base.Throughput <= 0 {
		return 0
	}
	return d.Throughput / base.Throughput
}

// HumanBytes formats a byte count with 1024 based units
func HumanBytes(size int) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024.0)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024.0*1024.0))
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/(1024.0*1024.0*1024.0))
	}
}

// HumanBytesPerSec formats a throughput with 1024 based units
func HumanBytesPerSec(rate float64) string {
	switch {
	case rate < 1024.0:
		return fmt.Sprintf("%.2f b/s", rate)
	case rate < 1024.0*1024.0:
		return fmt.Sprintf("%.2f KB/s", rate/1024.0)
	case rate < 1024.0*1024.0*1024.0:
		return fmt.Sprintf("%.2f MB/s", rate/(1024.0*1024.0))
	default:
		return fmt.Sprintf("%.2f GB/s", rate/(1024.0*1024.0*1024.0))
	}
}

func workerHeader(w int) string {
	return fmt.Sprintf("%d %s", w, caser.String("cores"))
}

func cell(s ScenarioResults, size, workers int) string {
	if d, ok := Lookup(s, size, workers); ok {
		return HumanBytesPerSec(d.Throughput)
	}
	return "-"
}

// Markdown builds the bandwidth grid as a pipe delimited markdown table.
// Rows are block sizes, columns are worker counts.
func Markdown(s ScenarioResults) string {
	workers := WorkerCounts(s)
	var b strings.Builder
	b.WriteString("| " + caser.String("block size") + " |")
	for _, w := range workers {
		fmt.Fprintf(&b, " %s |", workerHeader(w))
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(workers)))
	for _, size := range BlockSizes(s) {
		fmt.Fprintf(&b, "\n| %s |", HumanBytes(size))
		for _, w := range workers {
			fmt.Fprintf(&b, " %s |", cell(s, size, w))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// Method to init common table structure.
func initTable(w io.Writer, header []string) *tablewriter.Table {
	// Render as a markdown table: pipe borders and a separator under the header
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

// ShowBandwidthResult renders the bandwidth grid to w
func ShowBandwidthResult(w io.Writer, s ScenarioResults) {
	if len(s.Results) < 1 {
		logging.Warn("No results to render")
		return
	}
	logging.Debug("Rendering bandwidth results")
	workers := WorkerCounts(s)
	header := []string{caser.String("block size")}
	for _, wc := range workers {
		header = append(header, workerHeader(wc))
	}
	table := initTable(w, header)
	for _, size := range BlockSizes(s) {
		row := []string{HumanBytes(size)}
		for _, wc := range workers {
			row = append(row, cell(s, size, wc))
		}
		table.Append(row)
	}
	table.Render()
}

// ShowDetailResult renders one row per cell with the spread of its trials
func ShowDetailResult(w io.Writer, s ScenarioResults) {
	if len(s.Results) < 1 {
		return
	}
	logging.Debug("Rendering per cell details")
	table := initTable(w, []string{"Result Type", "Block Size", "Workers", "Samples", "Mean Duration", "Throughput", "Std Dev", "95% Confidence Interval", "Speedup"})
	for _, r := range s.Results {
		sd, _ := StandardDeviation(r.ThroughputSummary)
		ci := "-"
		if len(r.ThroughputSummary) > 1 {
			_, lo, hi := ConfidenceInterval(r.ThroughputSummary, 0.95)
			ci = fmt.Sprintf("%s - %s", HumanBytesPerSec(lo), HumanBytesPerSec(hi))
		}
		table.Append([]string{
			fmt.Sprintf("📊 %s Results", caser.String("copy")),
			HumanBytes(r.Size),
			strconv.Itoa(r.Workers),
			strconv.Itoa(len(r.DurationSummary)),
			r.Mean.String(),
			HumanBytesPerSec(r.Throughput),
			HumanBytesPerSec(sd),
			ci,
			fmt.Sprintf("%.2fx", Speedup(s, r)),
		})
	}
	table.Render()
}
