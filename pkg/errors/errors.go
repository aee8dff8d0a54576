package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidCredentials = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	InvalidUserID      = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	ErrUserNotFound    = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	TooManyRequests    = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please try again later"}
)

// 账户模块错误。
var (
	AccountNotFound = Definition{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found"}
	InvalidSendHour = Definition{Code: "INVALID_SEND_HOUR", Message: "Send hour must be between 0 and 23"}
)

// 接收人模块错误。
var (
	RecipientNotFound      = Definition{Code: "RECIPIENT_NOT_FOUND", Message: "Recipient not found"}
	RecipientPhoneConflict = Definition{Code: "RECIPIENT_PHONE_CONFLICT", Message: "Phone number already in use"}
	InvalidPhone           = Definition{Code: "INVALID_PHONE", Message: "Invalid phone number"}
)

// 签到模块错误。
var (
	AttestationNotFound = Definition{Code: "ATTESTATION_NOT_FOUND", Message: "Attestation not found"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:           Unauthorized,
	InvalidCredentials.Code:     InvalidCredentials,
	InvalidUserID.Code:          InvalidUserID,
	ErrUserNotFound.Code:        ErrUserNotFound,
	TooManyRequests.Code:        TooManyRequests,
	AccountNotFound.Code:        AccountNotFound,
	InvalidSendHour.Code:        InvalidSendHour,
	RecipientNotFound.Code:      RecipientNotFound,
	RecipientPhoneConflict.Code: RecipientPhoneConflict,
	InvalidPhone.Code:           InvalidPhone,
	AttestationNotFound.Code:    AttestationNotFound,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
