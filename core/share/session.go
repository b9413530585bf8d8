package share

import (
	models "meta_task/core/api/models/mongodb"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionState trạng thái của một share session.
// Máy trạng thái: Unresolved -> Loading -> {Ready | NotFound | Denied}.
// Resolve gặp lỗi hạ tầng thì session dừng ở Loading chứ không chuyển NotFound:
// not_found là khẳng định "link không tồn tại", không phải "chưa đọc được".
type SessionState string

const (
	StateUnresolved SessionState = "unresolved"
	StateLoading    SessionState = "loading"
	StateReady      SessionState = "ready"
	StateNotFound   SessionState = "not_found"
	StateDenied     SessionState = "denied"
)

// MemberView projection giới hạn của user trong session chia sẻ.
// Guest chỉ được thấy tên và avatar, không bao giờ thấy email/role/token.
type MemberView struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"displayName"`
	Avatar      string             `json:"avatar,omitempty"`
}

// SessionInfo phần meta của session trả cho client
type SessionInfo struct {
	State        SessionState       `json:"state"`
	LinkID       primitive.ObjectID `json:"linkId,omitempty"`
	LinkType     string             `json:"linkType,omitempty"`
	AccessLevel  int                `json:"accessLevel,omitempty"`
	SharedAsRole string             `json:"sharedAsRole,omitempty"`
	// DenyReason mã lỗi khi State = denied (revoked, expired, password_required)
	DenyReason string `json:"denyReason,omitempty"`
}

// Session toàn bộ dữ liệu một session chia sẻ đã phân giải.
// Khi State != ready thì các slice dữ liệu đều rỗng.
type Session struct {
	Info     SessionInfo             `json:"session"`
	Company  *models.Company         `json:"company,omitempty"`
	Tasks    []models.Task           `json:"tasks"`
	Statuses []models.StatusSnapshot `json:"statuses"`
	Brands   []models.Brand          `json:"brands"`
	Users    []MemberView            `json:"users"`
	NavItems []models.NavigationItem `json:"navItems"`

	link *models.SharedLink // Link gốc, chỉ dùng nội bộ server
}

// Link trả về link gốc của session (nil khi chưa Ready/Denied không có link)
func (s *Session) Link() *models.SharedLink {
	return s.link
}

// newSession khởi tạo session ở trạng thái Unresolved với các slice rỗng
// (client không phải phân biệt nil và rỗng)
func newSession() *Session {
	return &Session{
		Info:     SessionInfo{State: StateUnresolved},
		Tasks:    []models.Task{},
		Statuses: []models.StatusSnapshot{},
		Brands:   []models.Brand{},
		Users:    []MemberView{},
		NavItems: []models.NavigationItem{},
	}
}
