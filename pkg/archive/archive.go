package archive

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cloud-bulldozer/go-commons/indexers"
	"github.com/cloud-bulldozer/memperf/pkg/logging"
	result "github.com/cloud-bulldozer/memperf/pkg/results"
)

const (
	tputMetric = "bytes/s"
	ltcyMetric = "sec"
)

// Doc struct of the JSON document to be indexed
type Doc struct {
	UUID            string          `json:"uuid"`
	Timestamp       time.Time       `json:"timestamp"`
	BlockSize       int             `json:"blockSize"`
	Workers         int             `json:"workers"`
	Repetitions     int             `json:"repetitions"`
	ChunkSize       int             `json:"chunkSize"`
	Throughput      float64         `json:"throughput"`
	TputMetric      string          `json:"tputMetric"`
	MeanDuration    float64         `json:"meanDuration"`
	LtcyMetric      string          `json:"ltcyMetric"`
	DurationSummary []float64       `json:"durations"`
	StdDev          float64         `json:"stdDev"`
	Confidence      []float64       `json:"confidence"`
	Speedup         float64         `json:"speedup"`
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	ToolVersion     string          `json:"toolVersion"`
	ToolGitCommit   string          `json:"toolGitCommit"`
	Metadata        result.Metadata `json:"metadata"`
}

// Connect returns a client connected to the desired cluster.
func Connect(url, index string, skip bool) (*indexers.Indexer, error) {
	var err error
	var indexer *indexers.Indexer
	indexerConfig := indexers.IndexerConfig{
		Type:               "opensearch",
		Servers:            []string{url},
		Index:              index,
		InsecureSkipVerify: skip,
	}
	logging.Infof("📁 Creating indexer: %s", indexerConfig.Type)
	indexer, err = indexers.NewIndexer(indexerConfig)
	if err != nil {
		logging.Errorf("%v indexer: %v", indexerConfig.Type, err.Error())
		return nil, fmt.Errorf("failure while connecting to Opensearch")
	}
	logging.Infof("Connected to : %s ", url)
	return indexer, nil
}

func confidence(r result.Data) (float64, float64) {
	var lo, hi float64
	if len(r.ThroughputSummary) > 1 {
		_, lo, hi = result.ConfidenceInterval(r.ThroughputSummary, 0.95)
	}
	return lo, hi
}

// BuildDocs returns the documents that need to be indexed or an error.
func BuildDocs(sr result.ScenarioResults, uuid string) ([]interface{}, error) {
	time := time.Now().UTC()

	var docs []interface{}
	if len(sr.Results) < 1 {
		return nil, fmt.Errorf("no result documents")
	}
	for _, r := range sr.Results {
		lo, hi := confidence(r)
		d := Doc{
			UUID:            uuid,
			Timestamp:       time,
			BlockSize:       r.Size,
			Workers:         r.Workers,
			Repetitions:     r.Repetitions,
			ChunkSize:       r.ChunkSize,
			Throughput:      r.Throughput,
			TputMetric:      tputMetric,
			MeanDuration:    r.Mean.Seconds(),
			LtcyMetric:      ltcyMetric,
			DurationSummary: r.DurationSummary,
			Confidence:      []float64{lo, hi},
			Speedup:         result.Speedup(sr, r),
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			ToolVersion:     sr.Version,
			ToolGitCommit:   sr.GitCommit,
			Metadata:        sr.Metadata,
		}
		sd, e := result.StandardDeviation(r.ThroughputSummary)
		if e != nil {
			logging.Warn("Unable to process throughput deviation, setting value to zero")
			d.StdDev = 0
		} else {
			d.StdDev = sd
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Common csv header fields.
func commonCsvHeaderFields() []string {
	return []string{
		"Block Size",
		"Workers",
		"# of Samples",
		"Chunk Size",
		"Confidence metric - low",
		"Confidence metric - high",
	}
}

// Common csv data fields.
func commonCsvDataFields(row result.Data) []string {
	lo, hi := confidence(row)
	return []string{
		strconv.Itoa(row.Size),
		strconv.Itoa(row.Workers),
		strconv.Itoa(len(row.DurationSummary)),
		strconv.Itoa(row.ChunkSize),
		strconv.FormatFloat(lo, 'f', -1, 64),
		strconv.FormatFloat(hi, 'f', -1, 64),
	}
}

// WriteJSONResult writes the result documents as JSON to w
func WriteJSONResult(w io.Writer, r result.ScenarioResults, uuid string) error {
	docs, err := BuildDocs(r, uuid)
	if err != nil {
		return err
	}
	p, err := json.MarshalIndent(docs, " ", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(p))
	return err
}

func writeCSV(w io.Writer, r result.ScenarioResults) error {
	archive := csv.NewWriter(w)
	data := append(commonCsvHeaderFields(),
		"Avg Throughput",
		"Throughput Metric",
		"Mean Duration",
		"Duration Metric",
		"Speedup",
	)
	if err := archive.Write(data); err != nil {
		return fmt.Errorf("failed to write result archive to file")
	}
	for _, row := range r.Results {
		data := append(commonCsvDataFields(row),
			fmt.Sprintf("%f", row.Throughput),
			tputMetric,
			fmt.Sprint(row.Mean.Seconds()),
			ltcyMetric,
			fmt.Sprintf("%f", result.Speedup(r, row)),
		)
		if err := archive.Write(data); err != nil {
			return fmt.Errorf("failed to write archive to file")
		}
	}
	archive.Flush()
	return archive.Error()
}

// WriteCSVResult will write the throughput result to the local filesystem
// and return the file name
func WriteCSVResult(r result.ScenarioResults) (string, error) {
	fn := fmt.Sprintf("result-%d.csv", time.Now().Unix())
	fp, err := os.Create(fn)
	if err != nil {
		return "", fmt.Errorf("failed to open archive file")
	}
	defer fp.Close()
	if err := writeCSV(fp, r); err != nil {
		return "", err
	}
	return fn, nil
}
