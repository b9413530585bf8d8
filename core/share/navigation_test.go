package share

import (
	"errors"
	"testing"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
)

func navFixture() []models.NavigationItem {
	return []models.NavigationItem{
		{Code: "reports", Title: "Báo cáo", Path: "/reports", Order: 3, Roles: []string{models.RoleAdmin, models.RoleGuest}},
		{Code: "board", Title: "Board", Path: "/board", Order: 1, Roles: []string{models.RoleMember, models.RoleGuest}},
		{Code: "tasks", Title: "Tasks", Path: "/tasks", Order: 2, Roles: []string{models.RoleMember, models.RoleGuest}},
		{Code: "members", Title: "Thành viên", Path: "/admin/members", Order: 4, Roles: []string{models.RoleAdmin, models.RoleGuest}},
		{Code: "settings", Title: "Cài đặt", Path: "/admin/settings", Order: 5, Roles: []string{models.RoleAdmin}},
	}
}

func navLink(allowed []string, role string) *models.SharedLink {
	return &models.SharedLink{
		AllowedNavItems: allowed,
		SharedAsRole:    role,
	}
}

func TestFilterNavItems_LocTheoBaDieuKien(t *testing.T) {
	link := navLink([]string{"board", "tasks", "reports", "members"}, models.RoleGuest)
	got := FilterNavItems(navFixture(), link)

	// members bị loại vì path /admin, dù code được allow và role khớp
	want := []string{"board", "tasks", "reports"}
	if len(got) != len(want) {
		t.Fatalf("muốn %d items, nhận %d: %+v", len(want), len(got), got)
	}
	for i, code := range want {
		if got[i].Code != code {
			t.Errorf("vị trí %d: muốn %q, nhận %q", i, code, got[i].Code)
		}
	}
}

func TestFilterNavItems_SapXepOnDinhTheoOrder(t *testing.T) {
	link := navLink([]string{"reports", "tasks", "board"}, models.RoleGuest)
	got := FilterNavItems(navFixture(), link)

	for i := 1; i < len(got); i++ {
		if got[i-1].Order > got[i].Order {
			t.Errorf("kết quả không tăng dần theo order: %d đứng trước %d", got[i-1].Order, got[i].Order)
		}
	}
}

func TestFilterNavItems_CodeNgoaiAllowedBiLoai(t *testing.T) {
	link := navLink([]string{"board"}, models.RoleGuest)
	got := FilterNavItems(navFixture(), link)
	if len(got) != 1 || got[0].Code != "board" {
		t.Errorf("chỉ board được allow, nhận: %+v", got)
	}
}

func TestFilterNavItems_RoleKhongKhopBiLoai(t *testing.T) {
	// reports chỉ cho Admin/Guest; link đóng vai Member thì không thấy reports
	link := navLink([]string{"board", "reports"}, models.RoleMember)
	got := FilterNavItems(navFixture(), link)
	for _, item := range got {
		if item.Code == "reports" {
			t.Error("reports không cho role Member nhưng vẫn lọt qua filter")
		}
	}
}

func TestResolveNavItem_PhanBietNotFoundVaDenied(t *testing.T) {
	items := navFixture()
	link := navLink([]string{"board"}, models.RoleGuest)

	// Code không tồn tại trong hệ thống => NotFound
	_, err := ResolveNavItem(items, link, "khong-ton-tai")
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrNotFound) {
		t.Errorf("code không tồn tại phải trả ErrNotFound, nhận: %v", err)
	}

	// Code tồn tại nhưng ngoài allowedNavItems => PermissionDenied, không phải NotFound
	_, err = ResolveNavItem(items, link, "tasks")
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrPermissionDenied) {
		t.Errorf("code ngoài phạm vi link phải trả ErrPermissionDenied, nhận: %v", err)
	}

	// Code hợp lệ => trả về item
	item, err := ResolveNavItem(items, link, "board")
	if err != nil {
		t.Fatalf("board hợp lệ nhưng resolve lỗi: %v", err)
	}
	if item.Code != "board" {
		t.Errorf("muốn board, nhận %q", item.Code)
	}
}

func TestResolveNavItem_AdminPathLuonDenied(t *testing.T) {
	items := navFixture()
	// members được allow và role khớp, nhưng path /admin vẫn chặn
	link := navLink([]string{"members"}, models.RoleGuest)

	_, err := ResolveNavItem(items, link, "members")
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrPermissionDenied) {
		t.Errorf("path /admin phải trả ErrPermissionDenied, nhận: %v", err)
	}
}
