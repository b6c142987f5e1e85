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

// Package server exposes the recommender over a REST-ful API.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sentrec/sentrec/base/log"
	"github.com/sentrec/sentrec/config"
	"github.com/sentrec/sentrec/logics"
)

// RestServer implements a REST-ful API server over a recommender.
type RestServer struct {
	Config      *config.Config
	Recommender *logics.Recommender
	HttpHost    string
	HttpPort    int
	WebService  *restful.WebService
}

// NewRestServer creates a REST server serving the given recommender.
func NewRestServer(cfg *config.Config, recommender *logics.Recommender) *RestServer {
	return &RestServer{
		Config:      cfg,
		Recommender: recommender,
		HttpHost:    cfg.Server.HttpHost,
		HttpPort:    cfg.Server.HttpPort,
		WebService:  new(restful.WebService),
	}
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	// register restful APIs
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: restful.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	restful.DefaultContainer.Add(restfulspec.NewOpenAPIService(specConfig))
	// register prometheus
	http.Handle("/metrics", promhttp.Handler())

	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.HttpHost, s.HttpPort)))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(fmt.Sprintf("%s:%d", s.HttpHost, s.HttpPort), nil)))
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)))
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	// Get final recommendations
	ws.Route(ws.GET("/recommend/{user-name}").To(s.getRecommend).
		Doc("Get blended recommendations for a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-name", "name of the user").DataType("string")).
		Param(ws.QueryParameter("n", "number of returned recommendations").DataType("int")).
		Writes([]logics.Recommendation{}))
	// Get candidates
	ws.Route(ws.GET("/candidates/{user-name}").To(s.getCandidates).
		Doc("Get the candidate pool for a user, before sentiment blending.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-name", "name of the user").DataType("string")).
		Param(ws.QueryParameter("n", "number of returned candidates").DataType("int")).
		Writes([]logics.Candidate{}))
}

func (s *RestServer) getRecommend(request *restful.Request, response *restful.Response) {
	username := strings.TrimSpace(request.PathParameter("user-name"))
	if username == "" {
		BadRequest(response, errors.BadRequestf("empty user name"))
		return
	}
	finalK, err := parseN(request, s.Config.Recommend.FinalK)
	if err != nil {
		BadRequest(response, err)
		return
	}
	start := time.Now()
	results, err := s.Recommender.Recommend(username, s.Config.Recommend.CandidatePool, finalK)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	GetRecommendSeconds.Observe(time.Since(start).Seconds())
	Ok(response, results)
}

func (s *RestServer) getCandidates(request *restful.Request, response *restful.Response) {
	username := strings.TrimSpace(request.PathParameter("user-name"))
	if username == "" {
		BadRequest(response, errors.BadRequestf("empty user name"))
		return
	}
	topK, err := parseN(request, s.Config.Recommend.CandidatePool)
	if err != nil {
		BadRequest(response, err)
		return
	}
	Ok(response, s.Recommender.Candidates(username, topK))
}

func parseN(request *restful.Request, fallback int) (int, error) {
	raw := request.QueryParameter("n")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequestf("invalid n: %s", raw)
	}
	if n <= 0 {
		return 0, errors.BadRequestf("non-positive n: %d", n)
	}
	return n, nil
}

func BadRequest(response *restful.Response, err error) {
	log.Logger().Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

func InternalServerError(response *restful.Response, err error) {
	log.Logger().Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

func Ok(response *restful.Response, content interface{}) {
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write json", zap.Error(err))
	}
}
