package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeContractNotFound, "contract not found")
	suite.Equal(ErrCodeContractNotFound, err.Code)
	suite.Equal("contract not found", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeOrderNotFound, "order %d not found", 42)
	suite.Equal(ErrCodeOrderNotFound, err.Code)
	suite.Equal("order 42 not found", err.Message)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("connection reset")
	err := Wrapf(ErrCodeGatewaySendFailed, cause, "send order %d", 7)
	suite.Equal("send order 7", err.Message)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestErrorString() {
	suite.Equal("[300] rejected", New(ErrCodeRiskRejected, "rejected").Error())

	err := Wrap(ErrCodeStoreFailed, "persist position", errors.New("io timeout"))
	suite.Equal("[600] persist position: io timeout", err.Error())
}

func (suite *ErrorTestSuite) TestGetCode() {
	inner := New(ErrCodeSelfTrade, "self trade")
	outer := Wrap(ErrCodeRiskRejected, "risk check failed", inner)

	suite.Equal(ErrCodeRiskRejected, GetCode(outer))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
}

func (suite *ErrorTestSuite) TestHasCodeWalksChain() {
	inner := New(ErrCodeSelfTrade, "self trade")
	outer := Wrap(ErrCodeRiskRejected, "risk check failed", inner)

	suite.True(HasCode(outer, ErrCodeRiskRejected))
	suite.True(HasCode(outer, ErrCodeSelfTrade))
	suite.False(HasCode(outer, ErrCodeThrottled))
	suite.False(HasCode(nil, ErrCodeRiskRejected))
}

func (suite *ErrorTestSuite) TestHasCodeThroughStdWrap() {
	err := fmt.Errorf("dispatch: %w", New(ErrCodeBadMagic, "bad magic"))
	suite.True(HasCode(err, ErrCodeBadMagic))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying")
	err := Wrap(ErrCodeQueryFailed, "query account", cause)
	suite.True(Is(err, cause))

	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeQueryFailed, coded.Code)
}
