package utility

import (
	"strings"
	"testing"
)

func TestGenerateTempCredential_DoDaiVaCharset(t *testing.T) {
	pw, err := GenerateTempCredential()
	if err != nil {
		t.Fatalf("GenerateTempCredential lỗi: %v", err)
	}
	if len(pw) != TempCredentialLength {
		t.Errorf("muốn độ dài %d, nhận %d", TempCredentialLength, len(pw))
	}
	for _, c := range pw {
		if !strings.ContainsRune(tempCredentialCharset, c) {
			t.Errorf("ký tự %q không nằm trong charset", c)
		}
	}
	// Không chứa ký tự dễ nhầm lẫn
	for _, bad := range "0O1lI" {
		if strings.ContainsRune(pw, bad) {
			t.Errorf("mật khẩu tạm chứa ký tự dễ nhầm %q", bad)
		}
	}
}

func TestGenerateTempCredential_KhongTrungLap(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := GenerateTempCredential()
		if err != nil {
			t.Fatalf("GenerateTempCredential lỗi: %v", err)
		}
		if seen[pw] {
			t.Fatalf("sinh trùng mật khẩu tạm sau %d lần: %s", i, pw)
		}
		seen[pw] = true
	}
}

func TestSharePassword_HashVaCompare(t *testing.T) {
	hash, err := HashSharePassword("mat-khau-link")
	if err != nil {
		t.Fatalf("HashSharePassword lỗi: %v", err)
	}
	if hash == "mat-khau-link" {
		t.Fatal("hash không được bằng plaintext")
	}

	if !CompareSharePassword(hash, "mat-khau-link") {
		t.Error("mật khẩu đúng nhưng compare trả về false")
	}
	if CompareSharePassword(hash, "mat-khau-sai") {
		t.Error("mật khẩu sai nhưng compare trả về true")
	}
	if CompareSharePassword("", "mat-khau-link") {
		t.Error("hash rỗng phải luôn trả về false")
	}
}
