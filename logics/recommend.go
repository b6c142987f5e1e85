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

// Package logics implements the recommendation pipeline: item-based
// candidate generation, the popularity fallback and the sentiment-blended
// re-ranking.
package logics

import (
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/sentrec/sentrec/storage/artifact"
)

const (
	// Blend weights. Personalization dominates, sentiment prevalence is
	// second and sentiment strength third.
	PersonalizationWeight   = 0.6
	SentimentShareWeight    = 0.3
	SentimentStrengthWeight = 0.1

	// DefaultCandidates is the candidate count when the generation stage
	// is called on its own.
	DefaultCandidates = 20
	// DefaultCandidatePool is the pool size of the re-ranking stage.
	DefaultCandidatePool = 100
	// DefaultFinalK is the number of recommendations returned per request.
	DefaultFinalK = 5

	// similarityEpsilon guards the weighted average against a near-zero
	// similarity mass in the denominator.
	similarityEpsilon = 1e-9
)

// Candidate is a product provisionally eligible for recommendation,
// before sentiment blending.
type Candidate struct {
	Id          string   `json:"id"`
	ProductName string   `json:"product_name"`
	AvgRating   *float64 `json:"avg_rating"`
	NumRatings  int      `json:"n_ratings"`
	Score       float64  `json:"recomm_score"`
}

// Recommendation is a final result record with sentiment columns and the
// blended score attached.
type Recommendation struct {
	Candidate
	PctPos      float64 `json:"pct_pos"`
	MeanPosProb float64 `json:"mean_pos_prob"`
	Blend       float64 `json:"blend"`
}

// Recommender computes recommendations over an immutable artifact
// snapshot. It keeps no state across requests: concurrent calls share
// nothing but the snapshot.
type Recommender struct {
	snapshot *artifact.Snapshot
}

func NewRecommender(snapshot *artifact.Snapshot) *Recommender {
	return &Recommender{snapshot: snapshot}
}

// Candidates returns up to topK candidates for a user, scored by item-based
// similarity against the user's rated items. Unknown users, and snapshots
// without a rating artifact, fall back to the popularity ranking. The
// result never includes a product the user already rated.
func (r *Recommender) Candidates(username string, topK int) []Candidate {
	if r.snapshot == nil || r.snapshot.Stats == nil || r.snapshot.Similarity == nil {
		return nil
	}
	if topK <= 0 {
		topK = DefaultCandidates
	}
	var userRatings map[string]float64
	known := false
	if r.snapshot.Personalized() {
		userRatings, known = r.snapshot.Ratings.UserRatings(username)
	}
	if !known {
		return r.Popularity(topK)
	}

	matrix := r.snapshot.Similarity
	ratedSet := mapset.NewSet[string]()
	for item, rating := range userRatings {
		if rating > 0 {
			ratedSet.Add(item)
		}
	}
	// Rated items are walked in matrix order so that float accumulation is
	// deterministic. Rated items outside the matrix contribute nothing to
	// either sum.
	ratedItems := lo.Filter(matrix.Products(), func(item string, _ int) bool {
		return userRatings[item] > 0
	})

	type scoredItem struct {
		id    string
		score float64
	}
	scores := make([]scoredItem, 0, matrix.Len())
	for _, item := range matrix.Products() {
		if ratedSet.Contains(item) {
			continue
		}
		score := 0.0
		if len(ratedItems) > 0 {
			var dot, sum float64
			for _, rated := range ratedItems {
				sim := matrix.Similarity(item, rated)
				dot += sim * userRatings[rated]
				sum += sim
			}
			if sum != 0 {
				score = dot / (sum + similarityEpsilon)
			}
		}
		scores = append(scores, scoredItem{id: item, score: score})
	}
	// Stable: ties keep matrix column order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if len(scores) > topK {
		scores = scores[:topK]
	}
	return lo.Map(scores, func(s scoredItem, _ int) Candidate {
		return r.newCandidate(s.id, s.score)
	})
}

// Recommend returns up to finalK recommendations for a user: a candidate
// pool re-ranked by the blend of personalization score and sentiment,
// with the user's already rated products filtered out.
func (r *Recommender) Recommend(username string, topKCandidates, finalK int) ([]Recommendation, error) {
	if r.snapshot == nil || r.snapshot.Stats == nil || r.snapshot.Similarity == nil {
		return nil, errors.NotValidf("artifact snapshot")
	}
	if topKCandidates <= 0 {
		topKCandidates = DefaultCandidatePool
	}
	if finalK <= 0 {
		finalK = DefaultFinalK
	}
	candidates := r.Candidates(username, topKCandidates)

	// Sentiment columns come from the statistics table. The candidate
	// stage never sets them, so there is no collision to resolve; missing
	// rows and missing columns both collapse to 0.
	results := lo.Map(candidates, func(c Candidate, _ int) Recommendation {
		rec := Recommendation{Candidate: c}
		if row, exist := r.snapshot.Stats.Get(c.Id); exist {
			rec.PctPos = zeroIfMissing(row.PctPos)
			rec.MeanPosProb = zeroIfMissing(row.MeanPosProb)
		}
		rec.Blend = PersonalizationWeight*rec.Score +
			SentimentShareWeight*rec.PctPos +
			SentimentStrengthWeight*rec.MeanPosProb
		return rec
	})
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Blend != results[j].Blend {
			return results[i].Blend > results[j].Blend
		}
		return ratingOrNegInf(results[i].AvgRating) > ratingOrNegInf(results[j].AvgRating)
	})
	results = r.filterRated(username, results)
	if len(results) > finalK {
		results = results[:finalK]
	}
	return results, nil
}

// filterRated removes products the user already rated. The popularity
// fallback does not exclude rated items, so the exclusion is re-applied
// here on every path. It never fails: when the user cannot be looked up
// the list passes through unfiltered.
func (r *Recommender) filterRated(username string, results []Recommendation) []Recommendation {
	if !r.snapshot.Personalized() {
		return results
	}
	userRatings, known := r.snapshot.Ratings.UserRatings(username)
	if !known {
		return results
	}
	rated := mapset.NewSet[string]()
	for item, rating := range userRatings {
		if rating > 0 {
			rated.Add(item)
		}
	}
	return lo.Filter(results, func(rec Recommendation, _ int) bool {
		return !rated.Contains(rec.Id)
	})
}

func (r *Recommender) newCandidate(id string, score float64) Candidate {
	c := Candidate{Id: id, Score: score}
	if row, exist := r.snapshot.Stats.Get(id); exist {
		c.ProductName = row.ProductName
		if !artifact.IsMissing(row.AvgRating) {
			rating := row.AvgRating
			c.AvgRating = &rating
		}
		c.NumRatings = row.NumRatings
	}
	return c
}

func zeroIfMissing(v float64) float64 {
	if artifact.IsMissing(v) {
		return 0
	}
	return v
}

func ratingOrNegInf(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}
