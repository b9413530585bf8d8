package utility

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	firebaseApp  *firebase.App
	firebaseAuth *auth.Client
	firebaseMu   sync.RWMutex
)

// InitFirebase khởi tạo Firebase Admin SDK với project ID và credentials file
func InitFirebase(projectID, credentialsPath string) error {
	firebaseMu.Lock()
	defer firebaseMu.Unlock()

	// Resolve đường dẫn credentials: thử tuyệt đối trước, sau đó đi lên tìm từ CWD
	resolvedPath := credentialsPath
	if !filepath.IsAbs(credentialsPath) {
		if wd, err := os.Getwd(); err == nil {
			currentDir := wd
			for {
				candidate := filepath.Join(currentDir, credentialsPath)
				if _, err := os.Stat(candidate); err == nil {
					resolvedPath = candidate
					break
				}
				parentDir := filepath.Dir(currentDir)
				if parentDir == currentDir {
					break
				}
				currentDir = parentDir
			}
		}
	}

	if _, err := os.Stat(resolvedPath); err != nil {
		return fmt.Errorf("firebase credentials file not found: %s", resolvedPath)
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(resolvedPath))
	if err != nil {
		return fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	firebaseApp = app
	firebaseAuth = authClient
	return nil
}

// GetFirebaseAuth trả về auth client, lỗi nếu Firebase chưa được khởi tạo
func GetFirebaseAuth() (*auth.Client, error) {
	firebaseMu.RLock()
	defer firebaseMu.RUnlock()
	if firebaseAuth == nil {
		return nil, fmt.Errorf("firebase auth client is not initialized")
	}
	return firebaseAuth, nil
}

// VerifyIDToken xác thực Firebase ID token và trả về token đã decode
func VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	client, err := GetFirebaseAuth()
	if err != nil {
		return nil, err
	}
	return client.VerifyIDToken(ctx, idToken)
}

// GetUserByUID lấy user record từ Firebase theo UID
func GetUserByUID(ctx context.Context, uid string) (*auth.UserRecord, error) {
	client, err := GetFirebaseAuth()
	if err != nil {
		return nil, err
	}
	return client.GetUser(ctx, uid)
}

// UpdateUserPassword đổi mật khẩu của user trên Firebase
func UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	client, err := GetFirebaseAuth()
	if err != nil {
		return err
	}
	params := (&auth.UserToUpdate{}).Password(newPassword)
	_, err = client.UpdateUser(ctx, uid, params)
	return err
}

// UpdateUserDisplayName đổi display name của user trên Firebase
func UpdateUserDisplayName(ctx context.Context, uid, displayName string) error {
	client, err := GetFirebaseAuth()
	if err != nil {
		return err
	}
	params := (&auth.UserToUpdate{}).DisplayName(displayName)
	_, err = client.UpdateUser(ctx, uid, params)
	return err
}

// SetUserClaims ghi đè custom claims của user trên Firebase.
// Claims dùng trong hệ thống: role, companyId, mustChangePassword.
func SetUserClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	client, err := GetFirebaseAuth()
	if err != nil {
		return err
	}
	return client.SetCustomUserClaims(ctx, uid, claims)
}

// RevokeRefreshTokens thu hồi toàn bộ refresh tokens của user (bắt login lại)
func RevokeRefreshTokens(ctx context.Context, uid string) error {
	client, err := GetFirebaseAuth()
	if err != nil {
		return err
	}
	return client.RevokeRefreshTokens(ctx, uid)
}
