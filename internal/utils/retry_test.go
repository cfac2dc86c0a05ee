package utils

import (
	"context"
	"errors"
	"time"
)

func (suite *UtilsTestSuite) TestRetrySucceedsAfterFailures() {
	calls := 0

	err := Retry(context.Background(), RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond}, func(attempt int) error {
		suite.Equal(calls, attempt)
		calls++

		if calls < 3 {
			return errors.New("not yet")
		}

		return nil
	})

	suite.NoError(err)
	suite.Equal(3, calls)
}

func (suite *UtilsTestSuite) TestRetryReturnsLastError() {
	calls := 0

	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(int) error {
		calls++

		return errors.New("always")
	})

	suite.EqualError(err, "always")
	suite.Equal(3, calls)
}

func (suite *UtilsTestSuite) TestRetryStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Retry(ctx, RetryConfig{BaseDelay: 10 * time.Millisecond, MaxDelay: 20 * time.Millisecond}, func(int) error {
		calls++
		if calls == 2 {
			cancel()
		}

		return errors.New("down")
	})

	suite.ErrorIs(err, context.Canceled)
	suite.Equal(2, calls)
}
