//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/2beens/gymdash/internal"
	"github.com/2beens/gymdash/internal/config"
	"github.com/2beens/gymdash/pkg"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort   = 9000
	serverHost   = "localhost"
	testDBName   = "gymdash"
	testDBPass   = "postgres"
	testApiToken = "integration-test-token"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type Suite struct {
	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	suite.dockerPool.MaxWait = time.Minute

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	pgPort, err := suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	apiTokenHash, err := pkg.HashToken(testApiToken)
	if err != nil {
		suite.cleanup()
		log.Fatalf("hash api token: %s", err)
	}

	dataDir, err := os.MkdirTemp("", "gymdash-integration-*")
	if err != nil {
		suite.cleanup()
		log.Fatalf("create data dir: %s", err)
	}
	suite.teardown = append(suite.teardown, func() {
		_ = os.RemoveAll(dataDir)
	})

	cfg := getTestConfig(redisPort, pgPort, dataDir)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			ApiTokenHash:            apiTokenHash,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			PostgresPassword:        testDBPass,
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(ctx, cfg.Host, cfg.Port)

	return suite
}

func (s *Suite) cleanup() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.server != nil {
		if err := s.server.GracefulShutdown(); err != nil {
			log.Printf("graceful shutdown: %s", err)
		}
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort, dataDir string) *config.Config {
	return &config.Config{
		Host:                      serverHost,
		Port:                      serverPort,
		PrometheusMetricsHost:     serverHost,
		PrometheusMetricsPort:     "9002",
		Storage:                   "postgres",
		DataDir:                   dataDir,
		SettingsFile:              "user_config.json",
		MaxUploadSizeMB:           10,
		RedisHost:                 "localhost",
		RedisPort:                 redisPort,
		MutationRateLimitPerMin:   100,
		PostgresPort:              postgresPort,
		PostgresHost:              "localhost",
		PostgresDBName:            testDBName,
		PredictionCacheSizeMB:     1,
		PredictionCacheExpiration: 60,
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "gymdash-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + testDBPass,
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:%s@localhost:%s/%s?sslmode=disable", testDBPass, pgPort, testDBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	// the container accepts connections a bit after it starts
	if err := s.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	return pgPort, nil
}
