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

// Package artifact holds the precomputed tables the recommender serves
// from. A snapshot is loaded once at startup and never mutated, so
// concurrent requests read it without locking.
package artifact

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
)

// Column names an optional column of the product statistics table.
type Column string

const (
	ColumnAvgRating   Column = "avg_rating"
	ColumnNumRatings  Column = "n_ratings"
	ColumnPctPos      Column = "pct_pos"
	ColumnMeanPosProb Column = "mean_pos_prob"
)

// Stats is one row of the product statistics table. Float fields hold NaN
// when the cell or the whole column is absent from the artifact.
type Stats struct {
	ProductName string
	AvgRating   float64
	NumRatings  int
	PctPos      float64
	MeanPosProb float64
}

// StatsTable is the product statistics artifact. Rows keep load order.
type StatsTable struct {
	ids     []string
	rows    map[string]Stats
	columns mapset.Set[Column]
}

// NewStatsTable creates a statistics table. The columns set declares which
// optional columns the artifact actually carries.
func NewStatsTable(columns mapset.Set[Column]) *StatsTable {
	return &StatsTable{
		rows:    make(map[string]Stats),
		columns: columns,
	}
}

// Append adds a row. A duplicated id overwrites the previous row but keeps
// its original position.
func (t *StatsTable) Append(id string, row Stats) {
	if _, exist := t.rows[id]; !exist {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = row
}

// Has reports whether the artifact carries the given optional column.
func (t *StatsTable) Has(column Column) bool {
	return t.columns.Contains(column)
}

// Get returns the row for a product id.
func (t *StatsTable) Get(id string) (Stats, bool) {
	row, exist := t.rows[id]
	return row, exist
}

// Products returns product ids in load order. Callers must not modify the
// returned slice.
func (t *StatsTable) Products() []string {
	return t.ids
}

func (t *StatsTable) Len() int {
	return len(t.ids)
}

// Matrix is the item-item similarity artifact. Its row and column universe
// is the product universe.
type Matrix struct {
	ids    []string
	index  map[string]int
	values [][]float64
}

// NewMatrix creates a square similarity matrix over the given products.
func NewMatrix(ids []string) *Matrix {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	values := make([][]float64, len(ids))
	for i := range values {
		values[i] = make([]float64, len(ids))
	}
	return &Matrix{ids: ids, index: index, values: values}
}

// Set sets the similarity between two products.
func (m *Matrix) Set(a, b string, score float64) {
	i, oka := m.index[a]
	j, okb := m.index[b]
	if oka && okb {
		m.values[i][j] = score
	}
}

// Similarity returns the similarity between two products, or 0 when either
// product is unknown.
func (m *Matrix) Similarity(a, b string) float64 {
	i, oka := m.index[a]
	j, okb := m.index[b]
	if !oka || !okb {
		return 0
	}
	return m.values[i][j]
}

// Products returns product ids in load order. Callers must not modify the
// returned slice.
func (m *Matrix) Products() []string {
	return m.ids
}

func (m *Matrix) Len() int {
	return len(m.ids)
}

// RatingTable is the optional user-item rating artifact. A rating of 0
// means "not rated".
type RatingTable struct {
	users map[string]map[string]float64
}

// NewRatingTable creates an empty rating table.
func NewRatingTable() *RatingTable {
	return &RatingTable{users: make(map[string]map[string]float64)}
}

// SetRating sets the rating a user assigned to a product.
func (t *RatingTable) SetRating(user, product string, rating float64) {
	ratings, exist := t.users[user]
	if !exist {
		ratings = make(map[string]float64)
		t.users[user] = ratings
	}
	ratings[product] = rating
}

// UserRatings returns the ratings of a user. Callers must not modify the
// returned map.
func (t *RatingTable) UserRatings(user string) (map[string]float64, bool) {
	ratings, exist := t.users[user]
	return ratings, exist
}

func (t *RatingTable) Len() int {
	return len(t.users)
}

// Snapshot bundles the three artifacts served for the process lifetime.
// Ratings is nil when the optional user-item artifact is absent, which is
// a permanent degraded mode rather than an error.
type Snapshot struct {
	Stats      *StatsTable
	Similarity *Matrix
	Ratings    *RatingTable
}

// Personalized reports whether the snapshot can personalize at all.
func (s *Snapshot) Personalized() bool {
	return s.Ratings != nil
}

// IsMissing reports whether a float cell was absent from the artifact.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
