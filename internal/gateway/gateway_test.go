package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type nopGateway struct {
	Gateway
}

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = NewRegistry()
}

func (s *RegistryTestSuite) TestCreateRegistered() {
	var gotDeps Dependencies

	s.Require().NoError(s.registry.Register("paper", func(deps Dependencies) (Gateway, error) {
		gotDeps = deps

		return &nopGateway{}, nil
	}))

	deps := Dependencies{Logger: logger.NewNopLogger()}
	gw, err := s.registry.Create("paper", deps)
	s.Require().NoError(err)
	s.NotNil(gw)
	s.Equal(deps.Logger, gotDeps.Logger)
}

func (s *RegistryTestSuite) TestCreateUnknown() {
	_, err := s.registry.Create("ctp", Dependencies{})
	s.True(errors.HasCode(err, errors.ErrCodeGatewayNotFound))
}

func (s *RegistryTestSuite) TestFactoryError() {
	s.Require().NoError(s.registry.Register("broken", func(Dependencies) (Gateway, error) {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "missing key")
	}))

	_, err := s.registry.Create("broken", Dependencies{})
	s.True(errors.HasCode(err, errors.ErrCodeGatewayLoginFailed))
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *RegistryTestSuite) TestRegisterRejectsDuplicatesAndEmpty() {
	factory := func(Dependencies) (Gateway, error) { return &nopGateway{}, nil }

	s.Require().NoError(s.registry.Register("b", factory))
	s.Require().NoError(s.registry.Register("a", factory))
	s.Error(s.registry.Register("a", factory))
	s.Error(s.registry.Register("", factory))
	s.Error(s.registry.Register("c", nil))

	s.Equal([]string{"a", "b"}, s.registry.Names())
}

type SyncWaiterTestSuite struct {
	suite.Suite
}

func TestSyncWaiterSuite(t *testing.T) {
	suite.Run(t, new(SyncWaiterTestSuite))
}

func (s *SyncWaiterTestSuite) TestDoneFromAnotherGoroutine() {
	w := NewSyncWaiter()

	go func() {
		time.Sleep(10 * time.Millisecond)
		w.Done()
	}()

	s.NoError(w.Wait(context.Background(), time.Second))
}

func (s *SyncWaiterTestSuite) TestFailReturnsError() {
	w := NewSyncWaiter()
	w.Fail(errors.New(errors.ErrCodeQueryFailed, "rejected by venue"))
	w.Done()

	err := w.Wait(context.Background(), time.Second)
	s.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
}

func (s *SyncWaiterTestSuite) TestTimeout() {
	w := NewSyncWaiter()

	start := time.Now()
	err := w.Wait(context.Background(), 20*time.Millisecond)
	s.True(errors.HasCode(err, errors.ErrCodeQueryTimeout))
	s.Less(time.Since(start), time.Second)
}

func (s *SyncWaiterTestSuite) TestContextCanceled() {
	w := NewSyncWaiter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Wait(ctx, 0)
	s.True(errors.HasCode(err, errors.ErrCodeCanceled))
}

func (s *SyncWaiterTestSuite) TestDoneBeforeWait() {
	w := NewSyncWaiter()
	w.Done()
	w.Done()

	s.NoError(w.Wait(context.Background(), time.Millisecond))
}
