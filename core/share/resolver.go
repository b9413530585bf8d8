package share

import (
	"context"
	"errors"
	"time"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkStore cung cấp link chia sẻ cho resolver
type LinkStore interface {
	GetLink(ctx context.Context, id primitive.ObjectID) (*models.SharedLink, error)
}

// DataStore cung cấp dữ liệu company cho resolver.
// Resolver nhận store qua constructor thay vì đọc global, để máy trạng thái
// test được không cần MongoDB.
type DataStore interface {
	GetCompany(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	ListTasks(ctx context.Context, companyID primitive.ObjectID, brandIDs []primitive.ObjectID) ([]models.Task, error)
	ListStatuses(ctx context.Context, companyID primitive.ObjectID) ([]models.Status, error)
	ListBrands(ctx context.Context, companyID primitive.ObjectID, brandIDs []primitive.ObjectID) ([]models.Brand, error)
	ListMembers(ctx context.Context, companyID primitive.ObjectID) ([]models.User, error)
	ListNavItems(ctx context.Context) ([]models.NavigationItem, error)
}

// Resolver phân giải link chia sẻ thành một Session hoàn chỉnh
type Resolver struct {
	links LinkStore
	data  DataStore
	log   *logrus.Entry
	now   func() time.Time
}

// NewResolver tạo resolver với các store được inject
func NewResolver(links LinkStore, data DataStore, log *logrus.Entry) *Resolver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Resolver{
		links: links,
		data:  data,
		log:   log,
		now:   time.Now,
	}
}

// Resolve chạy máy trạng thái Unresolved -> Loading -> {Ready | NotFound | Denied}.
// hasShareToken = true khi request mang share-scope token hợp lệ cho chính link này.
// Session trả về luôn khác nil; trạng thái cuối nằm trong Session.Info.State.
// Lỗi hạ tầng (mất kết nối, timeout) dừng session ở Loading: client thử lại được,
// và không bao giờ cache nhầm not_found cho một link vẫn còn tồn tại.
func (r *Resolver) Resolve(ctx context.Context, linkID primitive.ObjectID, hasShareToken bool) (*Session, error) {
	session := newSession()
	session.Info.State = StateLoading

	link, err := r.links.GetLink(ctx, linkID)
	if err != nil {
		if isNotFound(err) {
			session.Info.State = StateNotFound
			return session, common.ErrShareNotFound.WithError(err)
		}
		return session, err
	}

	// Các điều kiện từ chối, mỗi điều kiện một mã lỗi riêng để client phân biệt
	if link.IsRevoked {
		session.Info.State = StateDenied
		session.Info.DenyReason = common.ErrCodeShareRevoked.Code
		return session, common.ErrShareRevoked
	}
	if link.IsExpired(r.now()) {
		session.Info.State = StateDenied
		session.Info.DenyReason = common.ErrCodeShareExpired.Code
		return session, common.ErrShareExpired
	}
	if link.HasPassword() && !hasShareToken {
		// Chưa qua cửa mật khẩu: không load bất kỳ dữ liệu nào
		session.Info.State = StateDenied
		session.Info.DenyReason = common.ErrCodeSharePasswordRequired.Code
		session.Info.LinkID = link.ID
		return session, common.ErrSharePasswordRequired
	}

	session.link = link
	session.Info.LinkID = link.ID
	session.Info.LinkType = link.LinkType
	session.Info.AccessLevel = link.Permissions.AccessLevel
	session.Info.SharedAsRole = link.SharedAsRole

	if err := r.loadData(ctx, session, link); err != nil {
		if isNotFound(err) {
			session.Info.State = StateNotFound
		}
		return session, err
	}

	session.Info.State = StateReady
	return session, nil
}

// isNotFound phân biệt lỗi dữ liệu-không-tồn-tại với lỗi hạ tầng.
// Chỉ nhóm đầu được phép chốt trạng thái not_found.
func isNotFound(err error) bool {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Is(common.ErrNotFound) || appErr.Is(common.ErrShareNotFound)
}

// loadData nạp toàn bộ projection dữ liệu cho session
func (r *Resolver) loadData(ctx context.Context, session *Session, link *models.SharedLink) error {
	company, err := r.data.GetCompany(ctx, link.CompanyID)
	if err != nil {
		return err
	}
	session.Company = company

	// Statuses: ưu tiên snapshot trên link, fallback sang cấu hình hiện tại của company
	if link.Snapshot != nil && len(link.Snapshot.Statuses) > 0 {
		session.Statuses = link.Snapshot.Statuses
	} else {
		statuses, err := r.data.ListStatuses(ctx, link.CompanyID)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			session.Statuses = append(session.Statuses, models.StatusSnapshot{
				Code: st.Code, Name: st.Name, Color: st.Color, Order: st.Order, IsDone: st.IsDone,
			})
		}
	}

	if err := r.loadTasks(ctx, session, link); err != nil {
		return err
	}

	brands, err := r.data.ListBrands(ctx, link.CompanyID, link.BrandIDs)
	if err != nil {
		return err
	}
	session.Brands = filterTenant(r.log, brands, link, func(b models.Brand) primitive.ObjectID { return b.CompanyID })

	members, err := r.data.ListMembers(ctx, link.CompanyID)
	if err != nil {
		return err
	}
	for _, m := range filterTenant(r.log, members, link, func(u models.User) primitive.ObjectID { return u.CompanyID }) {
		session.Users = append(session.Users, MemberView{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Avatar:      m.Avatar,
		})
	}

	navItems, err := r.data.ListNavItems(ctx)
	if err != nil {
		return err
	}
	session.NavItems = FilterNavItems(navItems, link)
	return nil
}

// loadTasks nạp task theo loại link và brand scope
func (r *Resolver) loadTasks(ctx context.Context, session *Session, link *models.SharedLink) error {
	if link.LinkType == models.LinkTypeTask {
		task, err := r.data.GetTask(ctx, link.TargetID)
		if err != nil {
			return err
		}
		if task.CompanyID != link.CompanyID {
			// Vi phạm tenant isolation: coi như không tồn tại
			r.log.WithFields(logrus.Fields{
				"linkId": link.ID.Hex(),
				"taskId": task.ID.Hex(),
			}).Warn("Share link trỏ đến task của company khác, từ chối")
			return common.ErrShareNotFound
		}
		session.Tasks = append(session.Tasks, *task)
		return nil
	}

	// Least privilege: link không scope brand nào và creator không phải Super Admin
	// thì tuyệt đối không chạy query task
	if len(link.BrandIDs) == 0 && link.CreatorRole != models.RoleSuperAdmin {
		r.log.WithField("linkId", link.ID.Hex()).
			Info("Link không có brand scope, trả về danh sách task rỗng")
		return nil
	}

	tasks, err := r.data.ListTasks(ctx, link.CompanyID, link.BrandIDs)
	if err != nil {
		return err
	}
	session.Tasks = filterTenant(r.log, tasks, link, func(t models.Task) primitive.ObjectID { return t.CompanyID })
	return nil
}

// filterTenant loại bỏ documents không thuộc company của link và ghi log vi phạm
func filterTenant[T any](log *logrus.Entry, items []T, link *models.SharedLink, companyOf func(T) primitive.ObjectID) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if companyOf(item) != link.CompanyID {
			log.WithField("linkId", link.ID.Hex()).
				Warn("Document ngoài company của link bị loại khỏi session")
			continue
		}
		result = append(result, item)
	}
	return result
}
