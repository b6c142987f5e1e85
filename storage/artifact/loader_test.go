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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestLoadStats(t *testing.T) {
	path := writeFile(t, "stats.csv",
		"id,product_name,avg_rating,n_ratings,pct_pos,mean_pos_prob\n"+
			"P1,soap,4.5,10,0.9,0.8\n"+
			"P2,shampoo,,0,0.5,\n")
	table, err := LoadStats(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"P1", "P2"}, table.Products())
	for _, column := range []Column{ColumnAvgRating, ColumnNumRatings, ColumnPctPos, ColumnMeanPosProb} {
		assert.True(t, table.Has(column))
	}

	row, exist := table.Get("P1")
	assert.True(t, exist)
	assert.Equal(t, "soap", row.ProductName)
	assert.Equal(t, 4.5, row.AvgRating)
	assert.Equal(t, 10, row.NumRatings)
	assert.Equal(t, 0.9, row.PctPos)

	// empty cells degrade to missing, not errors
	row, exist = table.Get("P2")
	assert.True(t, exist)
	assert.True(t, IsMissing(row.AvgRating))
	assert.True(t, IsMissing(row.MeanPosProb))
	assert.Zero(t, row.NumRatings)

	_, exist = table.Get("P3")
	assert.False(t, exist)
}

func TestLoadStatsColumnSubset(t *testing.T) {
	path := writeFile(t, "stats.csv",
		"id,product_name,avg_rating\nP1,soap,4.5\n")
	table, err := LoadStats(path)
	assert.NoError(t, err)
	assert.True(t, table.Has(ColumnAvgRating))
	assert.False(t, table.Has(ColumnNumRatings))
	assert.False(t, table.Has(ColumnPctPos))
	assert.False(t, table.Has(ColumnMeanPosProb))

	row, _ := table.Get("P1")
	assert.True(t, IsMissing(row.PctPos))
	assert.True(t, IsMissing(row.MeanPosProb))
}

func TestLoadStatsInvalid(t *testing.T) {
	path := writeFile(t, "stats.csv", "product_name,avg_rating\nsoap,4.5\n")
	_, err := LoadStats(path)
	assert.Error(t, err)

	_, err = LoadStats(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadSimilarity(t *testing.T) {
	path := writeFile(t, "sim.csv",
		"id,A,B,C\n"+
			"A,1,0.8,0\n"+
			"B,0.8,1,0.2\n"+
			"C,0,0.2,1\n")
	matrix, err := LoadSimilarity(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, matrix.Products())
	assert.Equal(t, 0.8, matrix.Similarity("A", "B"))
	assert.Equal(t, 0.2, matrix.Similarity("C", "B"))
	assert.Zero(t, matrix.Similarity("A", "C"))
	// unknown products have no similarity
	assert.Zero(t, matrix.Similarity("A", "D"))
}

func TestLoadSimilarityRagged(t *testing.T) {
	path := writeFile(t, "sim.csv", "id,A,B\nA,1\n")
	_, err := LoadSimilarity(path)
	assert.Error(t, err)
}

func TestLoadRatings(t *testing.T) {
	path := writeFile(t, "ratings.csv",
		"user,A,B,C\n"+
			"bob,5,,0\n"+
			"carol,0,0,0\n")
	table, err := LoadRatings(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	ratings, exist := table.UserRatings("bob")
	assert.True(t, exist)
	assert.Equal(t, 5.0, ratings["A"])
	assert.Zero(t, ratings["B"])
	assert.Zero(t, ratings["C"])

	_, exist = table.UserRatings("alice")
	assert.False(t, exist)
}

func TestLoadSnapshot(t *testing.T) {
	statsPath := writeFile(t, "stats.csv", "id,product_name,pct_pos\nP1,soap,0.9\n")
	simPath := writeFile(t, "sim.csv", "id,P1\nP1,1\n")
	ratingsPath := writeFile(t, "ratings.csv", "user,P1\nbob,5\n")

	snapshot, err := Load(statsPath, simPath, ratingsPath)
	assert.NoError(t, err)
	assert.True(t, snapshot.Personalized())
	assert.Equal(t, 1, snapshot.Stats.Len())
	assert.Equal(t, 1, snapshot.Similarity.Len())
}

func TestLoadSnapshotDegraded(t *testing.T) {
	statsPath := writeFile(t, "stats.csv", "id,product_name,pct_pos\nP1,soap,0.9\n")
	simPath := writeFile(t, "sim.csv", "id,P1\nP1,1\n")

	// no rating artifact configured
	snapshot, err := Load(statsPath, simPath, "")
	assert.NoError(t, err)
	assert.False(t, snapshot.Personalized())

	// an unreadable rating artifact is not fatal either
	snapshot, err = Load(statsPath, simPath, filepath.Join(t.TempDir(), "missing.csv"))
	assert.NoError(t, err)
	assert.False(t, snapshot.Personalized())
}

func TestLoadSnapshotFatal(t *testing.T) {
	statsPath := writeFile(t, "stats.csv", "id,product_name\nP1,soap\n")
	simPath := writeFile(t, "sim.csv", "id,P1\nP1,1\n")
	missing := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(missing, simPath, "")
	assert.Error(t, err)
	_, err = Load(statsPath, missing, "")
	assert.Error(t, err)
}
