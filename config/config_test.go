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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	conf, err := LoadConfig("../config.toml.template")
	assert.NoError(t, err)
	// [artifacts]
	assert.Equal(t, "product_stats.csv", conf.Artifacts.StatsPath)
	assert.Equal(t, "item_sim.csv", conf.Artifacts.SimilarityPath)
	assert.Equal(t, "user_item.csv", conf.Artifacts.RatingsPath)
	// [server]
	assert.Equal(t, "127.0.0.1", conf.Server.HttpHost)
	assert.Equal(t, 8087, conf.Server.HttpPort)
	// [recommend]
	assert.Equal(t, 20, conf.Recommend.CandidatePool)
	assert.Equal(t, 5, conf.Recommend.FinalK)
}

func TestDefaults(t *testing.T) {
	// a minimal config picks up defaults for everything else
	temp := t.TempDir()
	path := filepath.Join(temp, "config.toml")
	text := "[artifacts]\nstats_path = \"stats.csv\"\nsimilarity_path = \"sim.csv\"\n"
	err := os.WriteFile(path, []byte(text), 0644)
	assert.NoError(t, err)

	conf, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Empty(t, conf.Artifacts.RatingsPath)
	assert.Equal(t, GetDefaultConfig().Server, conf.Server)
	assert.Equal(t, GetDefaultConfig().Recommend, conf.Recommend)
}

func TestValidate(t *testing.T) {
	conf := GetDefaultConfig()
	assert.Error(t, conf.Validate())
	conf.Artifacts.StatsPath = "stats.csv"
	assert.Error(t, conf.Validate())
	conf.Artifacts.SimilarityPath = "sim.csv"
	assert.NoError(t, conf.Validate())
	conf.Recommend.FinalK = 0
	assert.Error(t, conf.Validate())
}
