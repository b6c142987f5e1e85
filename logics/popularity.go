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

package logics

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/sentrec/sentrec/storage/artifact"
)

// popularityKeys is the sort key preference of the popularity ranking.
// The first key the statistics artifact carries becomes the primary key,
// later present keys break ties in the same order.
var popularityKeys = []artifact.Column{
	artifact.ColumnPctPos,
	artifact.ColumnMeanPosProb,
	artifact.ColumnAvgRating,
	artifact.ColumnNumRatings,
}

// Popularity ranks the statistics table by sentiment and rating columns
// and returns the top rows as candidates. It carries no personalization
// signal: every candidate score is 0.
func (r *Recommender) Popularity(topK int) []Candidate {
	stats := r.snapshot.Stats
	keys := lo.Filter(popularityKeys, func(column artifact.Column, _ int) bool {
		return stats.Has(column)
	})
	ids := make([]string, stats.Len())
	copy(ids, stats.Products())
	sort.SliceStable(ids, func(i, j int) bool {
		a, _ := stats.Get(ids[i])
		b, _ := stats.Get(ids[j])
		for _, key := range keys {
			av, bv := columnValue(a, key), columnValue(b, key)
			if av != bv {
				return av > bv
			}
		}
		return false
	})
	if topK >= 0 && len(ids) > topK {
		ids = ids[:topK]
	}
	return lo.Map(ids, func(id string, _ int) Candidate {
		return r.newCandidate(id, 0)
	})
}

// columnValue extracts a sort key from a row. Missing cells sort last.
func columnValue(row artifact.Stats, column artifact.Column) float64 {
	var v float64
	switch column {
	case artifact.ColumnAvgRating:
		v = row.AvgRating
	case artifact.ColumnNumRatings:
		v = float64(row.NumRatings)
	case artifact.ColumnPctPos:
		v = row.PctPos
	case artifact.ColumnMeanPosProb:
		v = row.MeanPosProb
	}
	if artifact.IsMissing(v) {
		return math.Inf(-1)
	}
	return v
}
