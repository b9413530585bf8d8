package utility

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// tempCredentialCharset bỏ các ký tự dễ nhầm lẫn (0/O, 1/l/I)
const tempCredentialCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TempCredentialLength độ dài mật khẩu tạm khi admin reset
const TempCredentialLength = 12

// GenerateTempCredential sinh mật khẩu tạm ngẫu nhiên (crypto/rand).
// Plaintext chỉ trả về một lần trong response, không được lưu hoặc ghi log.
func GenerateTempCredential() (string, error) {
	result := make([]byte, TempCredentialLength)
	max := big.NewInt(int64(len(tempCredentialCharset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = tempCredentialCharset[n.Int64()]
	}
	return string(result), nil
}

// HashSharePassword hash mật khẩu link chia sẻ bằng bcrypt
func HashSharePassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareSharePassword so sánh mật khẩu với hash đã lưu, trả về true nếu khớp
func CompareSharePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
