package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Configuration chứa toàn bộ cấu hình của server, đọc từ file env theo GO_ENV
type Configuration struct {
	// Cấu hình cơ bản
	Address   string `env:"SERVER_PORT" envDefault:"8080"`
	JwtSecret string `env:"JWT_SECRET_KEY,required"`

	// MongoDB
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`

	// CORS
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	// Rate limit
	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"300"`
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // giây

	// Firebase (identity provider)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseAdminUID        string `env:"FIREBASE_ADMIN_UID"`

	// Share link
	ShareTokenTTL int `env:"SHARE_TOKEN_TTL" envDefault:"3600"` // giây, TTL của share-scope token sau khi nhập đúng mật khẩu

	// Worker đối soát identity
	ReconcileInterval int `env:"RECONCILE_INTERVAL" envDefault:"900"` // giây, 0 = tắt worker

	// Frontend (để build URL trong thông báo)
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// TLS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// getEnvPath tìm file env theo GO_ENV bằng cách đi lên từ thư mục hiện tại
// Cấu trúc: config/env/<GO_ENV>.env (ví dụ: config/env/development.env)
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envPath := filepath.Join(currentDir, "config", "env", goEnv+".env")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc file env (nếu có) rồi parse cấu hình từ environment variables
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			logrus.Warnf("Không load được file env %s: %v", envPath, err)
		} else {
			logrus.Infof("Đã load cấu hình từ %s", envPath)
		}
	} else {
		logrus.Warn("Không tìm thấy file env, dùng environment variables của hệ thống")
	}

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		logrus.Errorf("Parse cấu hình thất bại: %v", err)
		return nil
	}

	if cfg.JwtSecret == "" {
		logrus.Error("JWT_SECRET_KEY không được để trống")
		return nil
	}

	fmt.Printf("Server config loaded (GO_ENV=%s, port=%s)\n", os.Getenv("GO_ENV"), cfg.Address)
	return cfg
}
