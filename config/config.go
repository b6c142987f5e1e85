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
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the sentrec server.
type Config struct {
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Server    ServerConfig    `mapstructure:"server"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// ArtifactsConfig locates the precomputed tables loaded at startup.
// StatsPath and SimilarityPath are mandatory, RatingsPath is optional.
type ArtifactsConfig struct {
	StatsPath      string `mapstructure:"stats_path"`
	SimilarityPath string `mapstructure:"similarity_path"`
	RatingsPath    string `mapstructure:"ratings_path"`
}

// ServerConfig is the configuration for the REST server.
type ServerConfig struct {
	HttpHost string `mapstructure:"http_host"`
	HttpPort int    `mapstructure:"http_port"`
}

// RecommendConfig is the configuration for the recommendation pipeline.
type RecommendConfig struct {
	// CandidatePool is the number of candidates fetched before re-ranking.
	CandidatePool int `mapstructure:"candidate_pool"`
	// FinalK is the number of recommendations returned to the caller.
	FinalK int `mapstructure:"final_k"`
}

// GetDefaultConfig returns a default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HttpHost: "127.0.0.1",
			HttpPort: 8087,
		},
		Recommend: RecommendConfig{
			CandidatePool: 20,
			FinalK:        5,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	viper.SetDefault("artifacts.stats_path", defaultConfig.Artifacts.StatsPath)
	viper.SetDefault("artifacts.similarity_path", defaultConfig.Artifacts.SimilarityPath)
	viper.SetDefault("artifacts.ratings_path", defaultConfig.Artifacts.RatingsPath)
	viper.SetDefault("server.http_host", defaultConfig.Server.HttpHost)
	viper.SetDefault("server.http_port", defaultConfig.Server.HttpPort)
	viper.SetDefault("recommend.candidate_pool", defaultConfig.Recommend.CandidatePool)
	viper.SetDefault("recommend.final_k", defaultConfig.Recommend.FinalK)
}

// LoadConfig loads the configuration from a TOML file. Fields also bind to
// environment variables prefixed with SENTREC_ (for example
// SENTREC_SERVER_HTTP_PORT).
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("sentrec")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate rejects configurations the engine cannot serve with.
func (config *Config) Validate() error {
	if config.Artifacts.StatsPath == "" {
		return errors.NotValidf("empty artifacts.stats_path")
	}
	if config.Artifacts.SimilarityPath == "" {
		return errors.NotValidf("empty artifacts.similarity_path")
	}
	if config.Recommend.CandidatePool <= 0 {
		return errors.NotValidf("non-positive recommend.candidate_pool")
	}
	if config.Recommend.FinalK <= 0 {
		return errors.NotValidf("non-positive recommend.final_k")
	}
	return nil
}
