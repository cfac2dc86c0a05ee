package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown  ErrorCode = 1
	ErrCodeCanceled ErrorCode = 2

	// Validation and configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrderRequest  ErrorCode = 102
	ErrCodeMissingParameter     ErrorCode = 103

	// Lookup errors (200-299)
	ErrCodeContractNotFound ErrorCode = 200
	ErrCodeOrderNotFound    ErrorCode = 201
	ErrCodeGatewayNotFound  ErrorCode = 202
	ErrCodePositionNotFound ErrorCode = 203

	// Risk errors (300-399)
	ErrCodeRiskRejected  ErrorCode = 300
	ErrCodeSelfTrade     ErrorCode = 301
	ErrCodeVolumeLimit   ErrorCode = 302
	ErrCodeThrottled     ErrorCode = 303
	ErrCodeTooManyOrders ErrorCode = 304

	// Gateway errors (400-499)
	ErrCodeNotLoggedIn        ErrorCode = 400
	ErrCodeGatewayLoginFailed ErrorCode = 401
	ErrCodeGatewaySendFailed  ErrorCode = 402
	ErrCodeCancelFailed       ErrorCode = 403
	ErrCodeQueryFailed        ErrorCode = 404
	ErrCodeQueryTimeout       ErrorCode = 405
	ErrCodeNotSupported       ErrorCode = 406

	// Protocol errors (500-599)
	ErrCodeBadMagic         ErrorCode = 500
	ErrCodeUnknownCommand   ErrorCode = 501
	ErrCodeMalformedMessage ErrorCode = 502

	// Persistence and transport errors (600-699)
	ErrCodeStoreFailed     ErrorCode = 600
	ErrCodePublishFailed   ErrorCode = 601
	ErrCodeSubscribeFailed ErrorCode = 602
	ErrCodeLoadFailed      ErrorCode = 603
)
