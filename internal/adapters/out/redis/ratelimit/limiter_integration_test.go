package ratelimit_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"parceltrack/internal/adapters/out/redis/ratelimit"
	"parceltrack/internal/adapters/out/redis/redistest"
	"parceltrack/internal/pkg/errs"
)

type LimiterIntegrationTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
}

func (suite *LimiterIntegrationTestSuite) SetupSuite() {
	container, client, err := redistest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.client = client
}

func (suite *LimiterIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *LimiterIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func TestLimiterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LimiterIntegrationTestSuite))
}

func (suite *LimiterIntegrationTestSuite) TestAllow_BlocksAfterLimit() {
	ctx := context.Background()
	limiter, err := ratelimit.NewFixedWindowLimiter(suite.client, 3, time.Minute)
	suite.Require().NoError(err)

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "10.0.0.1")
		suite.Require().NoError(err)
		suite.True(d.Allowed)
		suite.Equal(2-i, d.Remaining)
	}

	d, err := limiter.Allow(ctx, "10.0.0.1")
	suite.Require().NoError(err)
	suite.False(d.Allowed)
	suite.Positive(d.RetryAfter)
	suite.LessOrEqual(d.RetryAfter, time.Minute)

	other, err := limiter.Allow(ctx, "10.0.0.2")
	suite.Require().NoError(err)
	suite.True(other.Allowed)
}

func (suite *LimiterIntegrationTestSuite) TestAllow_WindowResets() {
	ctx := context.Background()
	limiter, err := ratelimit.NewFixedWindowLimiter(suite.client, 1, time.Second)
	suite.Require().NoError(err)

	d, err := limiter.Allow(ctx, "subject")
	suite.Require().NoError(err)
	suite.True(d.Allowed)

	d, err = limiter.Allow(ctx, "subject")
	suite.Require().NoError(err)
	suite.False(d.Allowed)

	suite.Eventually(func() bool {
		d, err := limiter.Allow(ctx, "subject")
		return err == nil && d.Allowed
	}, 5*time.Second, 200*time.Millisecond)
}

func TestNewFixedWindowLimiter_Validation(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{})

	_, err := ratelimit.NewFixedWindowLimiter(nil, 1, time.Minute)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = ratelimit.NewFixedWindowLimiter(client, 0, time.Minute)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = ratelimit.NewFixedWindowLimiter(client, 1, time.Millisecond)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
