// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/debts/config"
	"github.com/finance-tracker/debts/internal/infra/dependency"
	"github.com/finance-tracker/debts/internal/integration/cache"
	"github.com/finance-tracker/debts/internal/integration/metrics"
	"github.com/finance-tracker/debts/internal/integration/persistence/model"
	"github.com/finance-tracker/debts/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// suite holds the resources shared by every scenario.
var suite struct {
	server   *httptest.Server
	injector *dependency.Injector
	db       *mock.Db
}

// TestContext holds the test state for each scenario.
type TestContext struct {
	client      *http.Client
	headers     map[string]string
	accessToken string
	userID      uuid.UUID
	saved       map[string]string

	response *response
}

type response struct {
	status int
	body   any
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite starts the API once for all scenarios.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		// Automatic passes never fire during a scenario; scans are requested explicitly
		cfg.Scan.Debounce = time.Hour

		suite.db = mock.NewDb(model.All())
		redisClient := mock.NewRedis()

		suite.injector = dependency.NewInjector(cfg, suite.db.DbConn, dependency.Options{
			Watermarks: cache.NewRedisWatermarkStore(redisClient),
			Metrics:    metrics.NewPrometheusMetrics(),
			CacheHealth: func() bool {
				return redisClient.Ping(context.Background()).Err() == nil
			},
		})
		suite.server = httptest.NewServer(suite.injector.Router.Setup(cfg.Server.Environment))
	})

	ctx.AfterSuite(func() {
		if suite.server != nil {
			suite.server.Close()
		}
		if suite.injector != nil {
			suite.injector.Scheduler.Stop()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc := &TestContext{
			client:  &http.Client{Timeout: 10 * time.Second},
			headers: make(map[string]string),
			saved:   make(map[string]string),
		}

		if err := suite.db.ClearDB(); err != nil {
			return ctx, fmt.Errorf("failed to clear database: %w", err)
		}
		if err := mock.ClearRedis(mock.NewRedis()); err != nil {
			return ctx, fmt.Errorf("failed to clear redis: %w", err)
		}

		return SetTestContext(ctx, tc), nil
	})

	registerSetupSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerDatabaseSteps(ctx)
}

// registerSetupSteps registers background and fixture steps.
func registerSetupSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Given(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Given(`^the header is empty$`, theHeaderIsEmpty)
	ctx.Given(`^the stored balance of debt "([^"]*)" is "([^"]*)" with status "([^"]*)"$`, theStoredBalanceOfDebtIs)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.When(`^I save the response field "([^"]*)" as "([^"]*)"$`, iSaveTheResponseFieldAs)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, theResponseFieldShouldHaveItems)
}

// registerDatabaseSteps registers database assertion steps.
func registerDatabaseSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, theDbShouldContainObjectsInWithTheValues)
}
