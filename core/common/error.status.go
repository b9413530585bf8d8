package common

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// =========================================
// HTTP STATUS CODES
// =========================================
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusGone                = 410
	StatusUnprocessable       = 422
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// =========================================
// MESSAGES CHUẨN
// =========================================
const (
	MsgSuccess          = "Thành công"
	MsgCreated          = "Tạo mới thành công"
	MsgBadRequest       = "Dữ liệu đầu vào không hợp lệ"
	MsgUnauthorized     = "Chưa xác thực hoặc phiên đã hết hạn"
	MsgForbidden        = "Không có quyền thực hiện thao tác này"
	MsgNotFound         = "Không tìm thấy dữ liệu"
	MsgConflict         = "Dữ liệu đã tồn tại hoặc xung đột"
	MsgGone             = "Endpoint này đã ngừng hỗ trợ"
	MsgInternalError    = "Lỗi hệ thống, vui lòng thử lại sau"
	MsgInvalidState     = "Trạng thái hiện tại không cho phép thao tác này"
	MsgPermissionDenied = "Quyền chia sẻ không cho phép thao tác này"
)

// =========================================
// ERROR CODES
// =========================================

// ErrorCode định nghĩa mã lỗi có phân cấp: Category -> SubCategory -> Code
// Quy ước prefix: SYS (hệ thống), AUTH (xác thực/phân quyền), VAL (validation),
// DB (database), BIZ (nghiệp vụ), SHARE (chia sẻ link)
type ErrorCode struct {
	Code        string // Mã lỗi duy nhất, ví dụ: "SHARE_LINK_REVOKED"
	Category    string // Nhóm lỗi chính
	SubCategory string // Nhóm lỗi phụ
	Description string // Mô tả ngắn
}

var (
	// SYS - Lỗi hệ thống
	ErrCodeInternalServer = ErrorCode{"SYS_INTERNAL", "SYS", "INTERNAL", "Lỗi nội bộ hệ thống"}
	ErrCodeServiceInit    = ErrorCode{"SYS_SERVICE_INIT", "SYS", "INIT", "Khởi tạo service thất bại"}
	ErrCodeIdentitySync   = ErrorCode{"SYS_IDENTITY_SYNC", "SYS", "IDENTITY", "Đồng bộ identity provider thất bại"}

	// AUTH - Xác thực và phân quyền
	ErrCodeAuthToken      = ErrorCode{"AUTH_TOKEN", "AUTH", "TOKEN", "Token không hợp lệ hoặc đã hết hạn"}
	ErrCodeAuthCredential = ErrorCode{"AUTH_CREDENTIAL", "AUTH", "CREDENTIAL", "Thông tin đăng nhập không đúng"}
	ErrCodeAuthRole       = ErrorCode{"AUTH_ROLE", "AUTH", "ROLE", "Vai trò không đủ quyền"}
	ErrCodeAuthBlocked    = ErrorCode{"AUTH_BLOCKED", "AUTH", "BLOCKED", "Tài khoản đã bị khóa"}

	// VAL - Validation
	ErrCodeValidationInput  = ErrorCode{"VAL_INPUT", "VAL", "INPUT", "Dữ liệu đầu vào không hợp lệ"}
	ErrCodeValidationFormat = ErrorCode{"VAL_FORMAT", "VAL", "FORMAT", "Định dạng dữ liệu không đúng"}

	// DB - Database
	ErrCodeDatabaseConnect   = ErrorCode{"DB_CONNECT", "DB", "CONNECT", "Kết nối database thất bại"}
	ErrCodeDatabaseQuery     = ErrorCode{"DB_QUERY", "DB", "QUERY", "Truy vấn database thất bại"}
	ErrCodeDatabaseNotFound  = ErrorCode{"DB_NOT_FOUND", "DB", "QUERY", "Không tìm thấy document"}
	ErrCodeDatabaseDuplicate = ErrorCode{"DB_DUPLICATE", "DB", "WRITE", "Document bị trùng unique index"}

	// BIZ - Nghiệp vụ
	ErrCodeBusinessOperation = ErrorCode{"BIZ_OPERATION", "BIZ", "OPERATION", "Thao tác nghiệp vụ thất bại"}
	ErrCodeInvalidState      = ErrorCode{"BIZ_INVALID_STATE", "BIZ", "STATE", "Trạng thái không cho phép thao tác"}

	// SHARE - Chia sẻ link
	ErrCodeShareNotFound         = ErrorCode{"SHARE_LINK_NOT_FOUND", "SHARE", "RESOLVE", "Link chia sẻ không tồn tại"}
	ErrCodeShareRevoked          = ErrorCode{"SHARE_LINK_REVOKED", "SHARE", "RESOLVE", "Link chia sẻ đã bị thu hồi"}
	ErrCodeShareExpired          = ErrorCode{"SHARE_LINK_EXPIRED", "SHARE", "RESOLVE", "Link chia sẻ đã hết hạn"}
	ErrCodeSharePasswordRequired = ErrorCode{"SHARE_PASSWORD_REQUIRED", "SHARE", "PASSWORD", "Link yêu cầu mật khẩu"}
	ErrCodeSharePasswordWrong    = ErrorCode{"SHARE_PASSWORD_WRONG", "SHARE", "PASSWORD", "Mật khẩu không đúng"}
	ErrCodeSharePermission       = ErrorCode{"SHARE_PERMISSION_DENIED", "SHARE", "PERMISSION", "Quyền chia sẻ không cho phép"}
	ErrCodeShareGone             = ErrorCode{"SHARE_ENDPOINT_GONE", "SHARE", "RESOLVE", "Endpoint resolve cũ đã ngừng hỗ trợ"}
)

// =========================================
// ERROR STRUCT
// =========================================

// Error là kiểu lỗi chuẩn của toàn hệ thống, mang theo mã lỗi và HTTP status
type Error struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
	Err        error       `json:"-"` // Lỗi gốc (nếu có), không serialize
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is so sánh theo mã lỗi, cho phép dùng errors.Is với các lỗi định nghĩa sẵn
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == t.Code.Code
}

// WithDetails trả về bản sao của lỗi kèm details
func (e *Error) WithDetails(details interface{}) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithError trả về bản sao của lỗi kèm lỗi gốc
func (e *Error) WithError(err error) *Error {
	clone := *e
	clone.Err = err
	return &clone
}

// NewError tạo lỗi mới với mã lỗi, message và HTTP status
func NewError(code ErrorCode, message string, statusCode int, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// =========================================
// CÁC LỖI ĐỊNH NGHĨA SẴN
// =========================================
var (
	ErrInternal         = NewError(ErrCodeInternalServer, MsgInternalError, StatusInternalServerError, nil)
	ErrInvalidInput     = NewError(ErrCodeValidationInput, MsgBadRequest, StatusBadRequest, nil)
	ErrInvalidFormat    = NewError(ErrCodeValidationFormat, MsgBadRequest, StatusBadRequest, nil)
	ErrUnauthorized     = NewError(ErrCodeAuthToken, MsgUnauthorized, StatusUnauthorized, nil)
	ErrForbidden        = NewError(ErrCodeAuthRole, MsgForbidden, StatusForbidden, nil)
	ErrAccountBlocked   = NewError(ErrCodeAuthBlocked, "Tài khoản đã bị khóa", StatusForbidden, nil)
	ErrNotFound         = NewError(ErrCodeDatabaseNotFound, MsgNotFound, StatusNotFound, nil)
	ErrConflict         = NewError(ErrCodeDatabaseDuplicate, MsgConflict, StatusConflict, nil)
	ErrInvalidState     = NewError(ErrCodeInvalidState, MsgInvalidState, StatusConflict, nil)
	ErrIdentitySync     = NewError(ErrCodeIdentitySync, "Cập nhật identity provider thất bại, dữ liệu sẽ được đối soát lại", StatusInternalServerError, nil)
	ErrRequiredField    = NewError(ErrCodeValidationInput, "Thiếu trường bắt buộc", StatusBadRequest, nil)
	ErrPermissionDenied = NewError(ErrCodeSharePermission, MsgPermissionDenied, StatusForbidden, nil)

	// Lỗi riêng của domain chia sẻ link
	ErrShareNotFound         = NewError(ErrCodeShareNotFound, "Link chia sẻ không tồn tại", StatusNotFound, nil)
	ErrShareRevoked          = NewError(ErrCodeShareRevoked, "Link chia sẻ đã bị thu hồi", StatusForbidden, nil)
	ErrShareExpired          = NewError(ErrCodeShareExpired, "Link chia sẻ đã hết hạn", StatusForbidden, nil)
	ErrSharePasswordRequired = NewError(ErrCodeSharePasswordRequired, "Link yêu cầu mật khẩu", StatusForbidden, nil)
	ErrSharePasswordWrong    = NewError(ErrCodeSharePasswordWrong, "Mật khẩu không đúng", StatusForbidden, nil)
	ErrShareGone             = NewError(ErrCodeShareGone, MsgGone, StatusGone, nil)
)

// =========================================
// MONGODB ERROR MAPPING
// =========================================

// MapNotFound đổi lỗi not-found sang một lỗi domain cụ thể hơn (ví dụ
// ErrShareNotFound), các lỗi khác giữ nguyên. Lỗi hạ tầng (timeout, mất kết nối)
// không bao giờ được dán nhãn not-found: với client đó là hai sự thật khác nhau.
func MapNotFound(err error, notFound *Error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Is(ErrNotFound) {
		return notFound.WithError(err)
	}
	return err
}

// ConvertMongoError chuyển lỗi của mongo-driver về lỗi chuẩn của hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Đã là lỗi chuẩn thì giữ nguyên
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound.WithError(err)
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict.WithError(err)
	}

	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return NewError(ErrCodeDatabaseConnect, MsgInternalError, StatusServiceUnavailable, err)
	}

	return NewError(ErrCodeDatabaseQuery, MsgInternalError, StatusInternalServerError, err)
}
