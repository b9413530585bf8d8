package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/share"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeShareLinkStore trả về một link cố định; err (nếu set) thắng mọi lời gọi
type fakeShareLinkStore struct {
	link *models.SharedLink
	err  error
}

func (s *fakeShareLinkStore) GetLink(_ context.Context, id primitive.ObjectID) (*models.SharedLink, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.link == nil || s.link.ID != id {
		return nil, common.ErrNotFound
	}
	return s.link, nil
}

type fakeNavStore struct {
	items []models.NavigationItem
}

func (s *fakeNavStore) ListNavItems(_ context.Context) ([]models.NavigationItem, error) {
	return s.items, nil
}

func newScopeTestApp(links share.LinkStore, nav shareNavStore) *fiber.App {
	h := &ShareHandler{links: links, nav: nav}
	app := fiber.New()
	app.Get("/api/v1/share/session/:linkId/scope/:code", h.ResolveScope)
	return app
}

func scopeTestLink() *models.SharedLink {
	return &models.SharedLink{
		ID:              primitive.NewObjectID(),
		CompanyID:       primitive.NewObjectID(),
		LinkType:        models.LinkTypeBoard,
		Permissions:     models.SharePermissions{AccessLevel: 1, CanViewDetails: true},
		AllowedNavItems: []string{"board"},
		SharedAsRole:    models.RoleGuest,
	}
}

func scopeNavItems() []models.NavigationItem {
	return []models.NavigationItem{
		{Code: "board", Title: "Bảng task", Path: "/share/board", Order: 1, Roles: []string{models.RoleGuest}},
		{Code: "report", Title: "Báo cáo", Path: "/share/report", Order: 2, Roles: []string{models.RoleGuest}},
	}
}

func scopeRequest(t *testing.T, app *fiber.App, linkID primitive.ObjectID, code string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/share/session/"+linkID.Hex()+"/scope/"+code, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("gửi request lỗi: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("đọc body lỗi: %v", err)
	}
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("body không phải JSON: %v", err)
	}
	return envelope
}

func TestResolveScope_CodeTrongPhamVi(t *testing.T) {
	link := scopeTestLink()
	app := newScopeTestApp(&fakeShareLinkStore{link: link}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, link.ID, "board")
	if resp.StatusCode != common.StatusOK {
		t.Fatalf("muốn status %d, nhận %d", common.StatusOK, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response không có data: %v", envelope)
	}
	if data["code"] != "board" {
		t.Errorf("muốn nav item board, nhận %v", data["code"])
	}
}

func TestResolveScope_CodeKhongTonTai(t *testing.T) {
	link := scopeTestLink()
	app := newScopeTestApp(&fakeShareLinkStore{link: link}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, link.ID, "ghost")
	// Code không tồn tại trong hệ thống: 404, khác hẳn với ngoài phạm vi link
	if resp.StatusCode != common.StatusNotFound {
		t.Errorf("muốn status %d, nhận %d", common.StatusNotFound, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["code"] != common.ErrCodeDatabaseNotFound.Code {
		t.Errorf("muốn mã lỗi %q, nhận %v", common.ErrCodeDatabaseNotFound.Code, envelope["code"])
	}
}

func TestResolveScope_CodeNgoaiPhamViLink(t *testing.T) {
	link := scopeTestLink() // chỉ cho phép board
	app := newScopeTestApp(&fakeShareLinkStore{link: link}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, link.ID, "report")
	// Code có thật nhưng link không cấp: 403, không được trả 404
	if resp.StatusCode != common.StatusForbidden {
		t.Errorf("muốn status %d, nhận %d", common.StatusForbidden, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["code"] != common.ErrCodeSharePermission.Code {
		t.Errorf("muốn mã lỗi %q, nhận %v", common.ErrCodeSharePermission.Code, envelope["code"])
	}
}

func TestResolveScope_LinkKhongTonTai(t *testing.T) {
	app := newScopeTestApp(&fakeShareLinkStore{}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, primitive.NewObjectID(), "board")
	if resp.StatusCode != common.StatusNotFound {
		t.Errorf("muốn status %d, nhận %d", common.StatusNotFound, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["code"] != common.ErrCodeShareNotFound.Code {
		t.Errorf("muốn mã lỗi %q, nhận %v", common.ErrCodeShareNotFound.Code, envelope["code"])
	}
}

func TestResolveScope_LoiHaTangGiuNguyenStatus(t *testing.T) {
	dbErr := common.NewError(common.ErrCodeDatabaseConnect, common.MsgInternalError,
		common.StatusServiceUnavailable, errors.New("connection reset"))
	link := scopeTestLink()
	app := newScopeTestApp(&fakeShareLinkStore{link: link, err: dbErr}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, link.ID, "board")
	// Mất kết nối database phải trả 503, không được đổi nhãn thành 404 not-found
	if resp.StatusCode != common.StatusServiceUnavailable {
		t.Errorf("muốn status %d, nhận %d", common.StatusServiceUnavailable, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["code"] != common.ErrCodeDatabaseConnect.Code {
		t.Errorf("muốn mã lỗi %q, nhận %v", common.ErrCodeDatabaseConnect.Code, envelope["code"])
	}
}

func TestResolveScope_LinkBiThuHoi(t *testing.T) {
	link := scopeTestLink()
	link.IsRevoked = true
	app := newScopeTestApp(&fakeShareLinkStore{link: link}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, link.ID, "board")
	if resp.StatusCode != common.StatusForbidden {
		t.Errorf("muốn status %d, nhận %d", common.StatusForbidden, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["code"] != common.ErrCodeShareRevoked.Code {
		t.Errorf("muốn mã lỗi %q, nhận %v", common.ErrCodeShareRevoked.Code, envelope["code"])
	}
}

func TestResolveScope_LinkCoMatKhauChuaQuaCua(t *testing.T) {
	link := scopeTestLink()
	link.PasswordHash = "$2a$10$fakehash"
	app := newScopeTestApp(&fakeShareLinkStore{link: link}, &fakeNavStore{items: scopeNavItems()})

	resp := scopeRequest(t, app, link.ID, "board")
	if resp.StatusCode != common.StatusForbidden {
		t.Errorf("muốn status %d, nhận %d", common.StatusForbidden, resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["code"] != common.ErrCodeSharePasswordRequired.Code {
		t.Errorf("muốn mã lỗi %q, nhận %v", common.ErrCodeSharePasswordRequired.Code, envelope["code"])
	}
}
