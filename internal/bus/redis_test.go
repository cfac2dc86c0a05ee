package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/stretchr/testify/suite"
)

type RedisBusTestSuite struct {
	suite.Suite
	server *miniredis.Miniredis
	bus    *RedisBus
}

func TestRedisBusSuite(t *testing.T) {
	suite.Run(t, new(RedisBusTestSuite))
}

func (s *RedisBusTestSuite) SetupTest() {
	s.server = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.server.Addr(), Protocol: 2})
	s.bus = NewRedisBusWithClient(client, logger.NewNopLogger())
}

func (s *RedisBusTestSuite) TearDownTest() {
	_ = s.bus.Close()
}

func (s *RedisBusTestSuite) TestPublishSubscribe() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan []byte, 1)

	go func() {
		for msg, err := range s.bus.Subscribe(ctx, "md-rb2501") {
			if err != nil {
				return
			}

			received <- msg

			return
		}
	}()

	s.Eventually(func() bool {
		return s.server.PubSubNumSub("md-rb2501")["md-rb2501"] > 0
	}, 2*time.Second, 10*time.Millisecond)

	s.Require().NoError(s.bus.Publish(ctx, "md-rb2501", []byte{0x01, 0x02}))

	select {
	case msg := <-received:
		s.Equal([]byte{0x01, 0x02}, msg)
	case <-ctx.Done():
		s.Fail("message not received")
	}
}

func (s *RedisBusTestSuite) TestSubscribeYieldsErrorWhenServerGone() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.server.Close()

	var gotErr error
	for _, err := range s.bus.Subscribe(ctx, "trader_cmd") {
		gotErr = err

		break
	}

	s.Error(gotErr)
}

func (s *RedisBusTestSuite) TestPublishFailsWhenServerGone() {
	s.server.Close()

	err := s.bus.Publish(context.Background(), "trader_cmd", []byte("x"))
	s.Error(err)
}
