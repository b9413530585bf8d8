package common

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestError_IsSoSanhTheoMaLoi(t *testing.T) {
	err := ErrShareRevoked.WithDetails("link abc")
	if !errors.Is(err, ErrShareRevoked) {
		t.Error("WithDetails phải giữ nguyên mã lỗi để errors.Is vẫn khớp")
	}
	if errors.Is(err, ErrShareExpired) {
		t.Error("hai mã lỗi khác nhau không được khớp errors.Is")
	}
}

func TestError_WithDetailsKhongSuaLoiGoc(t *testing.T) {
	before := ErrNotFound.Details
	derived := ErrNotFound.WithDetails("document xyz")
	if ErrNotFound.Details != before {
		t.Error("WithDetails phải clone, không được sửa lỗi định nghĩa sẵn")
	}
	if derived.Details != "document xyz" {
		t.Errorf("bản sao thiếu details, nhận: %v", derived.Details)
	}
}

func TestError_UnwrapTraVeLoiGoc(t *testing.T) {
	root := fmt.Errorf("lỗi gốc")
	err := ErrInternal.WithError(root)
	if !errors.Is(err, root) {
		t.Error("errors.Is phải tìm thấy lỗi gốc qua Unwrap")
	}
}

func TestMapNotFound(t *testing.T) {
	if MapNotFound(nil, ErrShareNotFound) != nil {
		t.Error("nil phải trả về nil")
	}

	// Not-found được đổi nhãn sang lỗi domain, giữ lỗi gốc qua Unwrap
	src := ErrNotFound.WithError(mongo.ErrNoDocuments)
	mapped := MapNotFound(src, ErrShareNotFound)
	var appErr *Error
	if !errors.As(mapped, &appErr) || !appErr.Is(ErrShareNotFound) {
		t.Errorf("ErrNotFound phải map sang ErrShareNotFound, nhận: %v", mapped)
	}
	if !errors.Is(mapped, src) {
		t.Error("lỗi gốc phải tìm được qua Unwrap sau khi đổi nhãn")
	}

	// Lỗi hạ tầng tuyệt đối không được đổi nhãn thành not-found
	dbErr := NewError(ErrCodeDatabaseConnect, MsgInternalError, StatusServiceUnavailable, fmt.Errorf("connection reset"))
	if got := MapNotFound(dbErr, ErrShareNotFound); got != dbErr {
		t.Errorf("lỗi hạ tầng phải giữ nguyên, nhận: %v", got)
	}

	// Lỗi không phải *Error cũng giữ nguyên
	plain := fmt.Errorf("lỗi lạ")
	if got := MapNotFound(plain, ErrShareNotFound); got != plain {
		t.Errorf("lỗi thường phải giữ nguyên, nhận: %v", got)
	}
}

func TestConvertMongoError(t *testing.T) {
	if ConvertMongoError(nil) != nil {
		t.Error("nil phải trả về nil")
	}

	err := ConvertMongoError(mongo.ErrNoDocuments)
	var appErr *Error
	if !errors.As(err, &appErr) || !appErr.Is(ErrNotFound) {
		t.Errorf("ErrNoDocuments phải map sang ErrNotFound, nhận: %v", err)
	}
	if appErr.StatusCode != StatusNotFound {
		t.Errorf("muốn status %d, nhận %d", StatusNotFound, appErr.StatusCode)
	}

	// Lỗi đã chuẩn hóa rồi thì giữ nguyên, không wrap thêm lớp
	already := ErrShareExpired.WithDetails("link")
	if got := ConvertMongoError(already); got != already {
		t.Error("lỗi đã là *Error phải được trả về nguyên vẹn")
	}

	// Lỗi lạ map về lỗi query với status 500
	if !errors.As(ConvertMongoError(fmt.Errorf("driver nổ")), &appErr) {
		t.Fatal("lỗi lạ phải được bọc thành *Error")
	}
	if appErr.StatusCode != StatusInternalServerError {
		t.Errorf("lỗi lạ phải mang status 500, nhận %d", appErr.StatusCode)
	}
}
