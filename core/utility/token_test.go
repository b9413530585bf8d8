package utility

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestShareToken_TaoVaParse(t *testing.T) {
	token, err := CreateShareToken(testSecret, "65f1a2b3c4d5e6f7a8b9c0d1", time.Hour)
	if err != nil {
		t.Fatalf("CreateShareToken lỗi: %v", err)
	}

	linkID, err := ParseShareToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseShareToken lỗi: %v", err)
	}
	if linkID != "65f1a2b3c4d5e6f7a8b9c0d1" {
		t.Errorf("muốn linkId 65f1a2b3c4d5e6f7a8b9c0d1, nhận %q", linkID)
	}
}

func TestShareToken_SaiSecret(t *testing.T) {
	token, err := CreateShareToken(testSecret, "65f1a2b3c4d5e6f7a8b9c0d1", time.Hour)
	if err != nil {
		t.Fatalf("CreateShareToken lỗi: %v", err)
	}

	if _, err := ParseShareToken("secret-khac", token); err == nil {
		t.Error("token ký bằng secret khác phải bị từ chối")
	}
}

func TestShareToken_HetHan(t *testing.T) {
	token, err := CreateShareToken(testSecret, "65f1a2b3c4d5e6f7a8b9c0d1", -time.Minute)
	if err != nil {
		t.Fatalf("CreateShareToken lỗi: %v", err)
	}

	if _, err := ParseShareToken(testSecret, token); err == nil {
		t.Error("token hết hạn phải bị từ chối")
	}
}

func TestShareToken_KhongNhanSessionToken(t *testing.T) {
	// Session token đăng nhập không có scope share, không được dùng thay share token
	token, err := CreateToken(testSecret, "user-id", "hwid-1")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}

	if _, err := ParseShareToken(testSecret, token); err == nil {
		t.Error("session token không được chấp nhận làm share token")
	}
}
