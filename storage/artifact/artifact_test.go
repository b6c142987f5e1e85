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
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatsTableAppend(t *testing.T) {
	table := NewStatsTable(mapset.NewSet(ColumnAvgRating))
	table.Append("P1", Stats{ProductName: "soap"})
	table.Append("P2", Stats{ProductName: "shampoo"})
	// a duplicated id overwrites but keeps its position
	table.Append("P1", Stats{ProductName: "bar soap"})
	assert.Equal(t, []string{"P1", "P2"}, table.Products())
	row, _ := table.Get("P1")
	assert.Equal(t, "bar soap", row.ProductName)
}

func TestMatrixUnknownProducts(t *testing.T) {
	matrix := NewMatrix([]string{"A", "B"})
	matrix.Set("A", "B", 0.5)
	// setting an unknown pair is a no-op
	matrix.Set("A", "Z", 0.9)
	assert.Equal(t, 0.5, matrix.Similarity("A", "B"))
	assert.Zero(t, matrix.Similarity("A", "Z"))
	assert.Zero(t, matrix.Similarity("Z", "A"))
}
