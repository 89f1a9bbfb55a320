package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Unauthenticated     failure.ErrorCode = "Unauthenticated"
	UpstreamError       failure.ErrorCode = "UpstreamError"
	PartialFailure      failure.ErrorCode = "PartialFailure"

	AccessTokenExpired  failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  failure.ErrorCode = "AccessTokenInvalid"
	CredentialsMismatch failure.ErrorCode = "CredentialsMismatch"
	EmailAlreadyInUse   failure.ErrorCode = "EmailAlreadyInUse"
	InvalidEmail        failure.ErrorCode = "InvalidEmail"
	InvalidPassword     failure.ErrorCode = "InvalidPassword"

	SkinNotFound      failure.ErrorCode = "SkinNotFound"
	InvalidSkinID     failure.ErrorCode = "InvalidSkinID"
	InvalidSkinName   failure.ErrorCode = "InvalidSkinName"
	InvalidWear       failure.ErrorCode = "InvalidWear"
	InvalidPrice      failure.ErrorCode = "InvalidPrice"
	InvalidSalePrice  failure.ErrorCode = "InvalidSalePrice"
	InvalidPaging     failure.ErrorCode = "InvalidPaging"
	TradeSideEmpty    failure.ErrorCode = "TradeSideEmpty"
	InvalidTradeItem  failure.ErrorCode = "InvalidTradeItem"
	InvalidMarketName failure.ErrorCode = "InvalidMarketName"
	PriceUnavailable  failure.ErrorCode = "PriceUnavailable"
)
