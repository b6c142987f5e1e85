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

package main

import (
	_ "net/http/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentrec/sentrec/base/log"
	"github.com/sentrec/sentrec/config"
	"github.com/sentrec/sentrec/logics"
	"github.com/sentrec/sentrec/server"
	"github.com/sentrec/sentrec/storage/artifact"
)

var sentrecCommand = &cobra.Command{
	Use:   "sentrec",
	Short: "Sentiment-blended product recommender server.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debugMode, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debugMode)
		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.String("config", configPath), zap.Error(err))
		}
		// load artifacts
		snapshot, err := artifact.Load(conf.Artifacts.StatsPath, conf.Artifacts.SimilarityPath, conf.Artifacts.RatingsPath)
		if err != nil {
			log.Logger().Fatal("failed to load artifacts", zap.Error(err))
		}
		log.Logger().Info("artifacts loaded",
			zap.Int("n_products", snapshot.Stats.Len()),
			zap.Int("n_similarity_columns", snapshot.Similarity.Len()),
			zap.Bool("personalized", snapshot.Personalized()))
		// start server
		s := server.NewRestServer(conf, logics.NewRecommender(snapshot))
		s.StartHttpServer()
	},
}

func init() {
	sentrecCommand.PersistentFlags().StringP("config", "c", "config.toml", "configuration file path")
	sentrecCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(sentrecCommand.PersistentFlags())
}

func main() {
	if err := sentrecCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
