package services

import (
	"context"
	"time"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/global"
	"meta_task/core/logger"
	"meta_task/core/share"
	"meta_task/core/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SharedLinkService xử lý nghiệp vụ link chia sẻ: tạo, thu hồi, cửa mật khẩu,
// migrate snapshot. Implement share.LinkStore cho resolver.
type SharedLinkService struct {
	*BaseServiceMongoImpl[models.SharedLink]
	statusService *BaseServiceMongoImpl[models.Status]
}

// NewSharedLinkService tạo shared link service, lấy các collection từ registry
func NewSharedLinkService() (*SharedLinkService, error) {
	linkCol, err := getCollection(global.MongoDB_ColNames.SharedLinks)
	if err != nil {
		return nil, err
	}
	statusCol, err := getCollection(global.MongoDB_ColNames.Statuses)
	if err != nil {
		return nil, err
	}
	return &SharedLinkService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.SharedLink](linkCol),
		statusService:        NewBaseServiceMongo[models.Status](statusCol),
	}, nil
}

// GetLink implement share.LinkStore
func (s *SharedLinkService) GetLink(ctx context.Context, id primitive.ObjectID) (*models.SharedLink, error) {
	link, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// snapshotStatuses chụp bộ status hiện tại của company
func (s *SharedLinkService) snapshotStatuses(ctx context.Context, companyID primitive.ObjectID) ([]models.StatusSnapshot, error) {
	statuses, err := s.statusService.Find(ctx, bson.M{"companyId": companyID}, nil)
	if err != nil {
		return nil, err
	}
	snapshot := make([]models.StatusSnapshot, 0, len(statuses))
	for _, st := range statuses {
		snapshot = append(snapshot, models.StatusSnapshot{
			Code: st.Code, Name: st.Name, Color: st.Color, Order: st.Order, IsDone: st.IsDone,
		})
	}
	return snapshot, nil
}

// CreateLink tạo link chia sẻ mới.
// Creator và role được stamp từ user đang đăng nhập (không tin client),
// mật khẩu (nếu có) được hash bcrypt, status được chụp snapshot ngay lúc tạo.
func (s *SharedLinkService) CreateLink(ctx context.Context, link models.SharedLink, creator *models.User, plainPassword string) (*models.SharedLink, error) {
	if !share.AccessLevel(link.Permissions.AccessLevel).Valid() {
		return nil, common.ErrInvalidInput.WithDetails("accessLevel phải nằm trong khoảng 1-4")
	}
	if link.LinkType == models.LinkTypeTask && link.TargetID.IsZero() {
		return nil, common.ErrInvalidInput.WithDetails("link loại task phải có targetId")
	}

	link.Permissions = share.NormalizePermissions(link.Permissions)
	link.CreatorID = creator.ID
	link.CreatorRole = creator.Role
	if link.SharedAsRole == "" {
		link.SharedAsRole = models.RoleGuest
	}
	if link.AllowedNavItems == nil {
		link.AllowedNavItems = []string{}
	}
	if link.BrandIDs == nil {
		link.BrandIDs = []primitive.ObjectID{}
	}
	link.IsRevoked = false

	if plainPassword != "" {
		hash, err := utility.HashSharePassword(plainPassword)
		if err != nil {
			return nil, common.ErrInternal.WithError(err)
		}
		link.PasswordHash = hash
	}

	snapshot, err := s.snapshotStatuses(ctx, link.CompanyID)
	if err != nil {
		return nil, err
	}
	link.Snapshot = &models.ShareSnapshot{Statuses: snapshot}

	created, err := s.InsertOne(ctx, link)
	if err != nil {
		return nil, err
	}

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"linkId":      created.ID.Hex(),
		"companyId":   created.CompanyID.Hex(),
		"linkType":    created.LinkType,
		"accessLevel": created.Permissions.AccessLevel,
	}).Info("Đã tạo link chia sẻ")
	return &created, nil
}

// RevokeLink thu hồi link; session đang mở sẽ bị từ chối ở lần resolve kế tiếp
func (s *SharedLinkService) RevokeLink(ctx context.Context, linkID primitive.ObjectID) (*models.SharedLink, error) {
	link, err := s.UpdateById(ctx, linkID, &UpdateData{Set: bson.M{"isRevoked": true}})
	if err != nil {
		return nil, err
	}

	logger.GetAuditLogger().WithField("linkId", linkID.Hex()).Info("Đã thu hồi link chia sẻ")
	return &link, nil
}

// VerifyPassword kiểm tra mật khẩu link và phát hành share-scope token TTL ngắn.
// Link không có mật khẩu -> InvalidState; sai mật khẩu -> lỗi riêng để client đếm số lần thử.
func (s *SharedLinkService) VerifyPassword(ctx context.Context, linkID primitive.ObjectID, password string) (string, error) {
	link, err := s.FindOneById(ctx, linkID)
	if err != nil {
		// Chỉ not-found mới được đổi nhãn; lỗi hạ tầng giữ nguyên status gốc
		return "", common.MapNotFound(err, common.ErrShareNotFound)
	}

	if link.IsRevoked {
		return "", common.ErrShareRevoked
	}
	if link.IsExpired(time.Now()) {
		return "", common.ErrShareExpired
	}
	if !link.HasPassword() {
		return "", common.ErrInvalidState.WithDetails("link không đặt mật khẩu")
	}
	if !utility.CompareSharePassword(link.PasswordHash, password) {
		return "", common.ErrSharePasswordWrong
	}

	ttl := time.Duration(global.MongoDB_ServerConfig.ShareTokenTTL) * time.Second
	token, err := utility.CreateShareToken(global.MongoDB_ServerConfig.JwtSecret, link.ID.Hex(), ttl)
	if err != nil {
		return "", common.ErrInternal.WithError(err)
	}
	return token, nil
}

// MigrationResult kết quả một lần chạy migrate snapshot
type MigrationResult struct {
	Migrated        int `json:"migrated"`
	AlreadyUpToDate int `json:"alreadyUpToDate"`
}

// MigrateSnapshots backfill snapshot.statuses cho các link cũ chưa có.
// Idempotent: link đã có snapshot được đếm vào AlreadyUpToDate và không bị ghi lại,
// chạy lần hai Migrated luôn bằng 0.
func (s *SharedLinkService) MigrateSnapshots(ctx context.Context, companyID *primitive.ObjectID) (*MigrationResult, error) {
	filter := bson.M{}
	if companyID != nil {
		filter["companyId"] = *companyID
	}

	links, err := s.Find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{}
	snapshotCache := make(map[primitive.ObjectID][]models.StatusSnapshot)

	for _, link := range links {
		if link.Snapshot != nil && len(link.Snapshot.Statuses) > 0 {
			result.AlreadyUpToDate++
			continue
		}

		snapshot, ok := snapshotCache[link.CompanyID]
		if !ok {
			snapshot, err = s.snapshotStatuses(ctx, link.CompanyID)
			if err != nil {
				return nil, err
			}
			snapshotCache[link.CompanyID] = snapshot
		}

		_, err := s.UpdateById(ctx, link.ID, &UpdateData{
			Set: bson.M{"snapshot": models.ShareSnapshot{Statuses: snapshot}},
		})
		if err != nil {
			return nil, err
		}
		result.Migrated++
	}

	logger.WithModule("share").WithFields(logrus.Fields{
		"migrated":        result.Migrated,
		"alreadyUpToDate": result.AlreadyUpToDate,
	}).Info("Hoàn tất migrate snapshot link chia sẻ")
	return result, nil
}
