package services

import (
	"context"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"
	"meta_task/core/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService xử lý nghiệp vụ user: đăng nhập, đổi role, reset mật khẩu.
// User tồn tại song song ở hai hệ thống: document store (dữ liệu nghiệp vụ)
// và identity provider (đăng nhập, custom claims).
type UserService struct {
	*BaseServiceMongoImpl[models.User]
}

// NewUserService tạo user service, lấy collection từ registry
func NewUserService() (*UserService, error) {
	col, err := getCollection(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	return &UserService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.User](col),
	}, nil
}

// LoginWithFirebase xác thực Firebase ID token, đồng bộ user vào document store
// và phát hành JWT session token. User đầu tiên của hệ thống trở thành Super Admin.
func (s *UserService) LoginWithFirebase(ctx context.Context, idToken, hwid string) (*models.User, string, error) {
	decoded, err := utility.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, "", common.NewError(common.ErrCodeAuthCredential, "Firebase ID token không hợp lệ", common.StatusUnauthorized, err)
	}

	fbUser, err := utility.GetUserByUID(ctx, decoded.UID)
	if err != nil {
		return nil, "", common.NewError(common.ErrCodeAuthCredential, "Không lấy được thông tin user từ Firebase", common.StatusUnauthorized, err)
	}

	// User đầu tiên đăng nhập trở thành Super Admin
	total, err := s.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, "", err
	}

	update := &UpdateData{
		Set: bson.M{
			"email":       fbUser.Email,
			"displayName": fbUser.DisplayName,
		},
	}
	if total == 0 {
		update.Set["role"] = models.RoleSuperAdmin
		logger.WithModule("auth").Info("User đầu tiên đăng nhập, gán role Super Admin")
	}

	user, err := s.Upsert(ctx, bson.M{"firebaseUid": decoded.UID}, update)
	if err != nil {
		return nil, "", err
	}
	if user.Role == "" {
		// User mới (không phải đầu tiên): mặc định Member
		user, err = s.UpdateById(ctx, user.ID, &UpdateData{Set: bson.M{"role": models.RoleMember}})
		if err != nil {
			return nil, "", err
		}
	}

	if user.IsBlock {
		return nil, "", common.ErrAccountBlocked.WithDetails(user.BlockNote)
	}

	token, err := utility.CreateToken(global.MongoDB_ServerConfig.JwtSecret, user.ID.Hex(), hwid)
	if err != nil {
		return nil, "", common.ErrInternal.WithError(err)
	}

	// Lưu token hiện hành và token theo thiết bị
	user, err = s.UpdateById(ctx, user.ID, &UpdateData{
		Set:  bson.M{"token": token},
		Push: bson.M{"tokens": models.UserToken{Hwid: hwid, JwtToken: token}},
	})
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// FindByToken tìm user theo session token (token hiện hành hoặc token theo thiết bị)
func (s *UserService) FindByToken(ctx context.Context, token string) (*models.User, error) {
	user, err := s.FindOne(ctx, bson.M{
		"$or": []bson.M{
			{"token": token},
			{"tokens": bson.M{"$elemMatch": bson.M{"jwtToken": token}}},
		},
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserRole đổi role (và display name nếu có) của user.
// Dual write hai hệ thống không cùng transaction: ghi document store trước,
// sau đó ghi identity provider. Nếu bước identity thất bại thì document đã đổi
// vẫn giữ nguyên, trả lỗi SYS_IDENTITY_SYNC và worker đối soát sẽ ghi lại claims.
func (s *UserService) UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role, displayName string) (*models.User, error) {
	if role != models.RoleSuperAdmin && role != models.RoleAdmin && role != models.RoleMember {
		return nil, common.ErrInvalidInput.WithDetails("role không hợp lệ: " + role)
	}

	set := bson.M{"role": role}
	if displayName != "" {
		set["displayName"] = displayName
	}

	user, err := s.UpdateById(ctx, userID, &UpdateData{Set: set})
	if err != nil {
		return nil, err
	}

	// Bước 2: đồng bộ identity provider
	if displayName != "" {
		if err := utility.UpdateUserDisplayName(ctx, user.FirebaseUID, displayName); err != nil {
			logger.WithModule("admin").WithError(err).
				WithField("userId", userID.Hex()).
				Error("Cập nhật displayName trên identity provider thất bại")
			return &user, common.ErrIdentitySync.WithError(err)
		}
	}
	if err := s.applyIdentityClaims(ctx, &user); err != nil {
		logger.WithModule("admin").WithError(err).
			WithField("userId", userID.Hex()).
			Error("Cập nhật custom claims trên identity provider thất bại")
		return &user, common.ErrIdentitySync.WithError(err)
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"userId": userID.Hex(),
		"role":   role,
	}).Info("Đã đổi role user")
	return &user, nil
}

// ResetUserPassword sinh mật khẩu tạm, ghi lên identity provider và bật cờ
// mustChangePassword. Plaintext chỉ trả về một lần, không lưu, không log.
func (s *UserService) ResetUserPassword(ctx context.Context, userID primitive.ObjectID) (*models.User, string, error) {
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	tempPassword, err := utility.GenerateTempCredential()
	if err != nil {
		return nil, "", common.ErrInternal.WithError(err)
	}

	if err := utility.UpdateUserPassword(ctx, user.FirebaseUID, tempPassword); err != nil {
		return nil, "", common.ErrIdentitySync.WithError(err)
	}

	// Bật cờ mustChangePassword ở cả hai hệ thống và thu hồi refresh tokens
	updated, err := s.UpdateById(ctx, userID, &UpdateData{Set: bson.M{"mustChangePassword": true}})
	if err != nil {
		return nil, "", err
	}
	if err := s.applyIdentityClaims(ctx, &updated); err != nil {
		return &updated, "", common.ErrIdentitySync.WithError(err)
	}
	if err := utility.RevokeRefreshTokens(ctx, user.FirebaseUID); err != nil {
		logger.WithModule("admin").WithError(err).
			WithField("userId", userID.Hex()).
			Warn("Thu hồi refresh tokens thất bại")
	}

	logger.GetAuditLogger().WithField("userId", userID.Hex()).Info("Đã reset mật khẩu user")
	return &updated, tempPassword, nil
}

// applyIdentityClaims ghi custom claims chuẩn của user lên identity provider
func (s *UserService) applyIdentityClaims(ctx context.Context, user *models.User) error {
	claims := map[string]interface{}{
		"role":               user.Role,
		"mustChangePassword": user.MustChangePassword,
	}
	if !user.CompanyID.IsZero() {
		claims["companyId"] = user.CompanyID.Hex()
	}
	return utility.SetUserClaims(ctx, user.FirebaseUID, claims)
}

// SetBlock khóa hoặc mở khóa tài khoản
func (s *UserService) SetBlock(ctx context.Context, userID primitive.ObjectID, isBlock bool, note string) (*models.User, error) {
	user, err := s.UpdateById(ctx, userID, &UpdateData{
		Set: bson.M{"isBlock": isBlock, "blockNote": note},
	})
	if err != nil {
		return nil, err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"userId":  userID.Hex(),
		"isBlock": isBlock,
	}).Info("Đã đổi trạng thái khóa tài khoản")
	return &user, nil
}
