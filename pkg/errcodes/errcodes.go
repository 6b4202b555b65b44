package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	InvalidListQuery    failure.ErrorCode = "InvalidListQuery"
	InvalidHistoryQuery failure.ErrorCode = "InvalidHistoryQuery"
	InvalidTimezone     failure.ErrorCode = "InvalidTimezone"
	InvalidItemIDs      failure.ErrorCode = "InvalidItemIDs"

	MethodNotFound  failure.ErrorCode = "MethodNotFound"
	VariantNotFound failure.ErrorCode = "VariantNotFound"
	PlayerNotFound  failure.ErrorCode = "PlayerNotFound"

	UpstreamUnavailable failure.ErrorCode = "UpstreamUnavailable"
	MalformedCacheData  failure.ErrorCode = "MalformedCacheData"
)
