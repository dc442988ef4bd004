package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/sim"
)

type ExportData struct {
	ID      string             `json:"id,omitempty"`
	Solver  string             `json:"solver"`
	Params  dynamo.Params      `json:"params"`
	Steps   int                `json:"steps"`
	Horizon float64            `json:"horizon"`
	Times   []float64          `json:"times"`
	U       []float64          `json:"u"`
	Exact   []float64          `json:"exact"`
	Metrics map[string]float64 `json:"metrics"`
}

func newExportData(id string, result *sim.Result) ExportData {
	return ExportData{
		ID:      id,
		Solver:  result.Solver,
		Params:  result.Params,
		Steps:   result.Trajectory.Steps(),
		Horizon: result.Horizon(),
		Times:   result.Trajectory.T,
		U:       result.Trajectory.U,
		Exact:   result.Exact,
		Metrics: result.Metrics,
	}
}

func WriteJSON(w io.Writer, id string, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newExportData(id, result))
}

func ExportJSON(path, id string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, id, result)
}

func ExportJSONStdout(id string, result *sim.Result) error {
	return WriteJSON(os.Stdout, id, result)
}

// WriteCSV writes time,u,exact,error rows.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "u", "exact", "error"}); err != nil {
		return err
	}

	tr := result.Trajectory
	for i := range tr.U {
		row := []string{
			strconv.FormatFloat(tr.T[i], 'f', 6, 64),
			strconv.FormatFloat(tr.U[i], 'f', 15, 64),
			strconv.FormatFloat(result.Exact[i], 'f', 15, 64),
			strconv.FormatFloat(tr.U[i]-result.Exact[i], 'e', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
