package share

import (
	"context"
	"errors"
	"testing"
	"time"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeLinkStore trả về link cố định theo id; err (nếu set) thắng mọi lời gọi
type fakeLinkStore struct {
	links map[primitive.ObjectID]*models.SharedLink
	err   error
}

func (s *fakeLinkStore) GetLink(_ context.Context, id primitive.ObjectID) (*models.SharedLink, error) {
	if s.err != nil {
		return nil, s.err
	}
	link, ok := s.links[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return link, nil
}

// fakeDataStore ghi lại các lời gọi để kiểm tra resolver có query hay không
type fakeDataStore struct {
	company  *models.Company
	task     *models.Task
	tasks    []models.Task
	statuses []models.Status
	brands   []models.Brand
	members  []models.User
	navItems []models.NavigationItem

	companyErr error

	listTasksCalled bool
	getTaskCalled   bool
}

func (s *fakeDataStore) GetCompany(_ context.Context, id primitive.ObjectID) (*models.Company, error) {
	if s.companyErr != nil {
		return nil, s.companyErr
	}
	if s.company == nil || s.company.ID != id {
		return nil, common.ErrNotFound
	}
	return s.company, nil
}

func (s *fakeDataStore) GetTask(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	s.getTaskCalled = true
	if s.task == nil || s.task.ID != id {
		return nil, common.ErrNotFound
	}
	return s.task, nil
}

func (s *fakeDataStore) ListTasks(_ context.Context, _ primitive.ObjectID, _ []primitive.ObjectID) ([]models.Task, error) {
	s.listTasksCalled = true
	return s.tasks, nil
}

func (s *fakeDataStore) ListStatuses(_ context.Context, _ primitive.ObjectID) ([]models.Status, error) {
	return s.statuses, nil
}

func (s *fakeDataStore) ListBrands(_ context.Context, _ primitive.ObjectID, _ []primitive.ObjectID) ([]models.Brand, error) {
	return s.brands, nil
}

func (s *fakeDataStore) ListMembers(_ context.Context, _ primitive.ObjectID) ([]models.User, error) {
	return s.members, nil
}

func (s *fakeDataStore) ListNavItems(_ context.Context) ([]models.NavigationItem, error) {
	return s.navItems, nil
}

func newTestResolver(link *models.SharedLink, data *fakeDataStore) (*Resolver, primitive.ObjectID) {
	linkID := primitive.NewObjectID()
	link.ID = linkID
	links := &fakeLinkStore{links: map[primitive.ObjectID]*models.SharedLink{linkID: link}}
	return NewResolver(links, data, nil), linkID
}

func baseLink(companyID primitive.ObjectID) *models.SharedLink {
	return &models.SharedLink{
		CompanyID:    companyID,
		LinkType:     models.LinkTypeBoard,
		Permissions:  models.SharePermissions{AccessLevel: int(AccessLevelView), CanViewDetails: true},
		SharedAsRole: models.RoleGuest,
		CreatorRole:  models.RoleAdmin,
		BrandIDs:     []primitive.ObjectID{primitive.NewObjectID()},
	}
}

func TestResolve_LinkKhongTonTai(t *testing.T) {
	r := NewResolver(&fakeLinkStore{links: map[primitive.ObjectID]*models.SharedLink{}}, &fakeDataStore{}, nil)

	session, err := r.Resolve(context.Background(), primitive.NewObjectID(), false)
	if session == nil {
		t.Fatal("session phải luôn khác nil")
	}
	if session.Info.State != StateNotFound {
		t.Errorf("muốn state %q, nhận %q", StateNotFound, session.Info.State)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrShareNotFound) {
		t.Errorf("muốn ErrShareNotFound, nhận: %v", err)
	}
}

func TestResolve_LoiHaTangKhiDocLink_GiuTrangThaiLoading(t *testing.T) {
	dbErr := common.NewError(common.ErrCodeDatabaseConnect, common.MsgInternalError,
		common.StatusServiceUnavailable, errors.New("connection reset"))
	r := NewResolver(&fakeLinkStore{err: dbErr}, &fakeDataStore{}, nil)

	session, err := r.Resolve(context.Background(), primitive.NewObjectID(), false)
	// Mất kết nối không có nghĩa là link không tồn tại: không được chốt not_found
	if session.Info.State != StateLoading {
		t.Errorf("muốn state %q khi lỗi hạ tầng, nhận %q", StateLoading, session.Info.State)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || appErr.Code.Code != common.ErrCodeDatabaseConnect.Code {
		t.Errorf("lỗi hạ tầng phải giữ nguyên mã gốc, nhận: %v", err)
	}
	if appErr.Is(common.ErrShareNotFound) {
		t.Error("lỗi hạ tầng bị đổi nhãn thành ErrShareNotFound")
	}
}

func TestResolve_LoiHaTangKhiLoadDuLieu_GiuTrangThaiLoading(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	dbErr := common.NewError(common.ErrCodeDatabaseConnect, common.MsgInternalError,
		common.StatusServiceUnavailable, errors.New("server selection timeout"))
	data := &fakeDataStore{companyErr: dbErr}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if session.Info.State != StateLoading {
		t.Errorf("muốn state %q khi load dữ liệu lỗi hạ tầng, nhận %q", StateLoading, session.Info.State)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || appErr.Code.Code != common.ErrCodeDatabaseConnect.Code {
		t.Errorf("lỗi hạ tầng phải được truyền nguyên vẹn, nhận: %v", err)
	}
}

func TestResolve_CompanyKhongTonTai_ChotNotFound(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	// fakeDataStore không có company nào => GetCompany trả ErrNotFound
	r, linkID := newTestResolver(link, &fakeDataStore{})

	session, err := r.Resolve(context.Background(), linkID, false)
	if session.Info.State != StateNotFound {
		t.Errorf("company không tồn tại phải chốt %q, nhận %q", StateNotFound, session.Info.State)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrNotFound) {
		t.Errorf("muốn ErrNotFound, nhận: %v", err)
	}
}

func TestResolve_LinkBiThuHoi(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.IsRevoked = true
	r, linkID := newTestResolver(link, &fakeDataStore{})

	session, err := r.Resolve(context.Background(), linkID, false)
	if session.Info.State != StateDenied {
		t.Errorf("muốn state %q, nhận %q", StateDenied, session.Info.State)
	}
	if session.Info.DenyReason != common.ErrCodeShareRevoked.Code {
		t.Errorf("muốn denyReason %q, nhận %q", common.ErrCodeShareRevoked.Code, session.Info.DenyReason)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrShareRevoked) {
		t.Errorf("muốn ErrShareRevoked, nhận: %v", err)
	}
}

func TestResolve_LinkHetHan(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	past := time.Now().Add(-time.Hour).UnixMilli()
	link.ExpireAt = &past
	r, linkID := newTestResolver(link, &fakeDataStore{})

	session, _ := r.Resolve(context.Background(), linkID, false)
	if session.Info.State != StateDenied {
		t.Errorf("muốn state %q, nhận %q", StateDenied, session.Info.State)
	}
	if session.Info.DenyReason != common.ErrCodeShareExpired.Code {
		t.Errorf("muốn denyReason %q, nhận %q", common.ErrCodeShareExpired.Code, session.Info.DenyReason)
	}
}

func TestResolve_LinkCoMatKhau_KhongLoadDuLieu(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.PasswordHash = "$2a$10$fakehash"
	data := &fakeDataStore{company: &models.Company{ID: companyID}}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if session.Info.State != StateDenied {
		t.Errorf("muốn state %q, nhận %q", StateDenied, session.Info.State)
	}
	if session.Info.DenyReason != common.ErrCodeSharePasswordRequired.Code {
		t.Errorf("muốn denyReason %q, nhận %q", common.ErrCodeSharePasswordRequired.Code, session.Info.DenyReason)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrSharePasswordRequired) {
		t.Errorf("muốn ErrSharePasswordRequired, nhận: %v", err)
	}
	// Chưa qua cửa mật khẩu thì không được load bất kỳ dữ liệu nào
	if session.Company != nil || len(session.Tasks) > 0 {
		t.Error("session bị denied vì mật khẩu nhưng vẫn có dữ liệu")
	}
	if data.listTasksCalled || data.getTaskCalled {
		t.Error("không được query task khi chưa qua cửa mật khẩu")
	}
}

func TestResolve_LinkCoMatKhau_CoShareToken(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.PasswordHash = "$2a$10$fakehash"
	data := &fakeDataStore{company: &models.Company{ID: companyID}}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, true)
	if err != nil {
		t.Fatalf("có share token hợp lệ nhưng resolve lỗi: %v", err)
	}
	if session.Info.State != StateReady {
		t.Errorf("muốn state %q, nhận %q", StateReady, session.Info.State)
	}
}

func TestResolve_LeastPrivilege_KhongQueryTask(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.BrandIDs = nil // không scope brand nào
	link.CreatorRole = models.RoleAdmin
	data := &fakeDataStore{
		company: &models.Company{ID: companyID},
		tasks:   []models.Task{{ID: primitive.NewObjectID(), CompanyID: companyID}},
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if err != nil {
		t.Fatalf("resolve lỗi: %v", err)
	}
	if session.Info.State != StateReady {
		t.Errorf("muốn state %q, nhận %q", StateReady, session.Info.State)
	}
	if len(session.Tasks) != 0 {
		t.Errorf("link không có brand scope phải trả task rỗng, nhận %d task", len(session.Tasks))
	}
	// Quan trọng: không chỉ trả rỗng mà còn không được chạy query
	if data.listTasksCalled {
		t.Error("link không có brand scope nhưng resolver vẫn query task")
	}
}

func TestResolve_SuperAdminKhongCanBrandScope(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.BrandIDs = nil
	link.CreatorRole = models.RoleSuperAdmin
	data := &fakeDataStore{
		company: &models.Company{ID: companyID},
		tasks:   []models.Task{{ID: primitive.NewObjectID(), CompanyID: companyID}},
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if err != nil {
		t.Fatalf("resolve lỗi: %v", err)
	}
	if !data.listTasksCalled {
		t.Error("link của Super Admin phải được query task dù không có brand scope")
	}
	if len(session.Tasks) != 1 {
		t.Errorf("muốn 1 task, nhận %d", len(session.Tasks))
	}
}

func TestResolve_TaskKhacCompanyBiLoai(t *testing.T) {
	companyID := primitive.NewObjectID()
	otherCompanyID := primitive.NewObjectID()
	link := baseLink(companyID)
	data := &fakeDataStore{
		company: &models.Company{ID: companyID},
		tasks: []models.Task{
			{ID: primitive.NewObjectID(), CompanyID: companyID, Title: "hợp lệ"},
			{ID: primitive.NewObjectID(), CompanyID: otherCompanyID, Title: "lọt từ company khác"},
		},
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if err != nil {
		t.Fatalf("resolve lỗi: %v", err)
	}
	if len(session.Tasks) != 1 {
		t.Fatalf("muốn 1 task sau khi lọc tenant, nhận %d", len(session.Tasks))
	}
	if session.Tasks[0].Title != "hợp lệ" {
		t.Errorf("task sai bị giữ lại: %q", session.Tasks[0].Title)
	}
}

func TestResolve_LinkTask_TroDenTaskCompanyKhac(t *testing.T) {
	companyID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.LinkType = models.LinkTypeTask
	link.TargetID = taskID
	data := &fakeDataStore{
		company: &models.Company{ID: companyID},
		task:    &models.Task{ID: taskID, CompanyID: primitive.NewObjectID()}, // company khác
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	// Vi phạm tenant => coi như không tồn tại, không tiết lộ là task có thật
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrShareNotFound) {
		t.Errorf("muốn ErrShareNotFound, nhận: %v", err)
	}
	if session.Info.State != StateNotFound {
		t.Errorf("muốn state %q, nhận %q", StateNotFound, session.Info.State)
	}
}

func TestResolve_SnapshotUuTienHonStatusHienTai(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	link.Snapshot = &models.ShareSnapshot{
		Statuses: []models.StatusSnapshot{{Code: "old_todo", Name: "Cũ"}},
	}
	data := &fakeDataStore{
		company:  &models.Company{ID: companyID},
		statuses: []models.Status{{CompanyID: companyID, Code: "new_todo", Name: "Mới"}},
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if err != nil {
		t.Fatalf("resolve lỗi: %v", err)
	}
	if len(session.Statuses) != 1 || session.Statuses[0].Code != "old_todo" {
		t.Errorf("phải dùng snapshot trên link, nhận: %+v", session.Statuses)
	}
}

func TestResolve_KhongCoSnapshotThiFallbackStatusHienTai(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	data := &fakeDataStore{
		company:  &models.Company{ID: companyID},
		statuses: []models.Status{{CompanyID: companyID, Code: "todo", Name: "Cần làm"}},
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if err != nil {
		t.Fatalf("resolve lỗi: %v", err)
	}
	if len(session.Statuses) != 1 || session.Statuses[0].Code != "todo" {
		t.Errorf("link không có snapshot phải fallback sang status hiện tại, nhận: %+v", session.Statuses)
	}
}

func TestResolve_MemberViewKhongLoEmail(t *testing.T) {
	companyID := primitive.NewObjectID()
	link := baseLink(companyID)
	data := &fakeDataStore{
		company: &models.Company{ID: companyID},
		members: []models.User{
			{ID: primitive.NewObjectID(), CompanyID: companyID, DisplayName: "Ngọc", Email: "ngoc@example.com"},
		},
	}
	r, linkID := newTestResolver(link, data)

	session, err := r.Resolve(context.Background(), linkID, false)
	if err != nil {
		t.Fatalf("resolve lỗi: %v", err)
	}
	if len(session.Users) != 1 {
		t.Fatalf("muốn 1 member, nhận %d", len(session.Users))
	}
	if session.Users[0].DisplayName != "Ngọc" {
		t.Errorf("muốn displayName Ngọc, nhận %q", session.Users[0].DisplayName)
	}
}
