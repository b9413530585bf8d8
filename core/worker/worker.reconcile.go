package worker

import (
	"context"
	"time"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/api/services"
	"meta_task/core/logger"
	"meta_task/core/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// ReconcileWorker đối soát định kỳ giữa document store và identity provider.
// Role/companyId/mustChangePassword sống ở cả hai hệ thống không cùng transaction,
// nên drift là có thể xảy ra (ví dụ đổi role thành công ở document nhưng ghi
// claims thất bại). Worker quét và ghi lại claims theo document store (source of truth).
type ReconcileWorker struct {
	userService *services.UserService
	interval    time.Duration
	log         *logrus.Entry
}

// NewReconcileWorker tạo worker với chu kỳ quét cho trước
func NewReconcileWorker(interval time.Duration) (*ReconcileWorker, error) {
	userService, err := services.NewUserService()
	if err != nil {
		return nil, err
	}
	return &ReconcileWorker{
		userService: userService,
		interval:    interval,
		log:         logger.WithModule("reconcile"),
	}, nil
}

// Start chạy vòng lặp đối soát cho đến khi context bị cancel
func (w *ReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Infof("🔄 [RECONCILE] Worker started, interval=%s", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("🔄 [RECONCILE] Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce quét một lượt toàn bộ user và sửa drift
func (w *ReconcileWorker) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("panic", r).Error("🔄 [RECONCILE] Panic trong lượt quét, bỏ qua lượt này")
		}
	}()

	users, err := w.userService.Find(ctx, bson.M{"isBlock": false}, nil)
	if err != nil {
		w.log.WithError(err).Error("🔄 [RECONCILE] Không lấy được danh sách user")
		return
	}

	var drifted int
	for _, user := range users {
		if user.FirebaseUID == "" {
			continue
		}
		if w.reconcileUser(ctx, &user) {
			drifted++
		}
	}

	if drifted > 0 {
		w.log.WithFields(logrus.Fields{
			"total":   len(users),
			"drifted": drifted,
		}).Warn("🔄 [RECONCILE] Đã sửa drift claims")
	}
}

// reconcileUser so sánh claims trên identity provider với document,
// ghi lại claims nếu lệch. Trả về true nếu có drift.
func (w *ReconcileWorker) reconcileUser(ctx context.Context, user *models.User) bool {
	record, err := utility.GetUserByUID(ctx, user.FirebaseUID)
	if err != nil {
		w.log.WithError(err).WithField("userId", user.ID.Hex()).
			Warn("🔄 [RECONCILE] Không đọc được user trên identity provider")
		return false
	}

	claims := record.CustomClaims
	role, _ := claims["role"].(string)
	mustChange, _ := claims["mustChangePassword"].(bool)
	companyID, _ := claims["companyId"].(string)

	wantCompanyID := ""
	if !user.CompanyID.IsZero() {
		wantCompanyID = user.CompanyID.Hex()
	}

	if role == user.Role && mustChange == user.MustChangePassword && companyID == wantCompanyID {
		return false
	}

	newClaims := map[string]interface{}{
		"role":               user.Role,
		"mustChangePassword": user.MustChangePassword,
	}
	if wantCompanyID != "" {
		newClaims["companyId"] = wantCompanyID
	}

	if err := utility.SetUserClaims(ctx, user.FirebaseUID, newClaims); err != nil {
		w.log.WithError(err).WithField("userId", user.ID.Hex()).
			Error("🔄 [RECONCILE] Ghi lại claims thất bại")
		return false
	}

	w.log.WithFields(logrus.Fields{
		"userId":  user.ID.Hex(),
		"oldRole": role,
		"newRole": user.Role,
	}).Info("🔄 [RECONCILE] Đã đồng bộ lại claims cho user")
	return true
}
