// Copyright 2026 sentrec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package artifact

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/sentrec/sentrec/base/log"
)

// Load reads the three artifacts. The statistics and similarity tables are
// mandatory and any failure there is returned to the caller. The rating
// table is optional: an empty path or a failed read leaves Ratings nil and
// the process runs in fallback-only mode.
func Load(statsPath, similarityPath, ratingsPath string) (*Snapshot, error) {
	stats, err := LoadStats(statsPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	similarity, err := LoadSimilarity(similarityPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	snapshot := &Snapshot{Stats: stats, Similarity: similarity}
	if ratingsPath == "" {
		log.Logger().Info("no rating artifact configured, personalization disabled")
		return snapshot, nil
	}
	snapshot.Ratings, err = LoadRatings(ratingsPath)
	if err != nil {
		log.Logger().Warn("failed to load rating artifact, personalization disabled",
			zap.String("path", ratingsPath), zap.Error(err))
		snapshot.Ratings = nil
	}
	return snapshot, nil
}

// LoadStats reads the product statistics table from a CSV file. The header
// must contain an id column; the remaining known columns are optional and
// their absence is recorded in the table's column set. Unknown columns are
// ignored.
func LoadStats(path string) (*StatsTable, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(records) == 0 {
		return nil, errors.NotValidf("empty statistics artifact %s", path)
	}
	header := records[0]
	fields := make(map[string]int, len(header))
	for i, name := range header {
		fields[strings.TrimSpace(name)] = i
	}
	idField, exist := fields["id"]
	if !exist {
		return nil, errors.NotValidf("statistics artifact %s without id column", path)
	}
	columns := mapset.NewSet[Column]()
	for _, column := range []Column{ColumnAvgRating, ColumnNumRatings, ColumnPctPos, ColumnMeanPosProb} {
		if _, exist := fields[string(column)]; exist {
			columns.Add(column)
		}
	}
	table := NewStatsTable(columns)
	for _, record := range records[1:] {
		row := Stats{
			AvgRating:   math.NaN(),
			PctPos:      math.NaN(),
			MeanPosProb: math.NaN(),
		}
		if i, exist := fields["product_name"]; exist && i < len(record) {
			row.ProductName = record[i]
		}
		if i, exist := fields[string(ColumnAvgRating)]; exist && i < len(record) {
			row.AvgRating = parseCell(record[i])
		}
		if i, exist := fields[string(ColumnNumRatings)]; exist && i < len(record) {
			if v := parseCell(record[i]); !math.IsNaN(v) {
				row.NumRatings = int(v)
			}
		}
		if i, exist := fields[string(ColumnPctPos)]; exist && i < len(record) {
			row.PctPos = parseCell(record[i])
		}
		if i, exist := fields[string(ColumnMeanPosProb)]; exist && i < len(record) {
			row.MeanPosProb = parseCell(record[i])
		}
		table.Append(record[idField], row)
	}
	return table, nil
}

// LoadSimilarity reads the item-item similarity matrix from a CSV file.
// The header lists the product universe, each following row is a product
// id and its scores against every column.
func LoadSimilarity(path string) (*Matrix, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(records) == 0 {
		return nil, errors.NotValidf("empty similarity artifact %s", path)
	}
	ids := records[0][1:]
	matrix := NewMatrix(ids)
	for _, record := range records[1:] {
		if len(record) != len(ids)+1 {
			return nil, errors.NotValidf("similarity artifact %s with ragged row %q", path, record[0])
		}
		for i, cell := range record[1:] {
			score := parseCell(cell)
			if math.IsNaN(score) {
				score = 0
			}
			matrix.Set(record[0], ids[i], score)
		}
	}
	return matrix, nil
}

// LoadRatings reads the user-item rating matrix from a CSV file. The
// header lists product ids, each following row is a username and the
// rating magnitudes. Empty cells mean "not rated".
func LoadRatings(path string) (*RatingTable, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(records) == 0 {
		return nil, errors.NotValidf("empty rating artifact %s", path)
	}
	ids := records[0][1:]
	table := NewRatingTable()
	for _, record := range records[1:] {
		if len(record) != len(ids)+1 {
			return nil, errors.NotValidf("rating artifact %s with ragged row %q", path, record[0])
		}
		for i, cell := range record[1:] {
			rating := parseCell(cell)
			if math.IsNaN(rating) {
				rating = 0
			}
			table.SetRating(record[0], ids[i], rating)
		}
	}
	return table, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return records, nil
}

// parseCell parses a numeric cell. Empty and unparsable cells map to NaN
// so missing data degrades instead of failing the load.
func parseCell(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
