package share

import (
	"fmt"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
)

// AccessLevel mức quyền của link chia sẻ. Đây là enum đóng: mọi giá trị
// ngoài 4 mức dưới đây đều bị từ chối toàn bộ quyền ghi.
type AccessLevel int

const (
	AccessLevelView       AccessLevel = 1 // Chỉ xem
	AccessLevelComment    AccessLevel = 2 // Xem + bình luận
	AccessLevelEditStatus AccessLevel = 3 // Được đổi trạng thái task
	AccessLevelEditFull   AccessLevel = 4 // Được đổi trạng thái, hạn chót, độ ưu tiên
)

// Các field của task mà guest có thể được phép sửa qua link
const (
	FieldStatus   = "statusCode"
	FieldDueDate  = "dueDate"
	FieldPriority = "priority"
)

// Valid kiểm tra level có nằm trong enum không
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessLevelView, AccessLevelComment, AccessLevelEditStatus, AccessLevelEditFull:
		return true
	}
	return false
}

// EditableFields trả về tập field task mà level cho phép sửa.
// Switch liệt kê đủ các case của enum; giá trị lạ rơi xuống default và bị chặn hết.
func (l AccessLevel) EditableFields() map[string]bool {
	switch l {
	case AccessLevelView:
		return map[string]bool{}
	case AccessLevelComment:
		return map[string]bool{}
	case AccessLevelEditStatus:
		return map[string]bool{FieldStatus: true}
	case AccessLevelEditFull:
		return map[string]bool{FieldStatus: true, FieldDueDate: true, FieldPriority: true}
	default:
		return map[string]bool{}
	}
}

// CanComment level có cho phép bình luận không
func (l AccessLevel) CanComment() bool {
	switch l {
	case AccessLevelComment, AccessLevelEditStatus, AccessLevelEditFull:
		return true
	}
	return false
}

// NormalizePermissions chuẩn hóa các cờ canXxx theo level: cờ chỉ được phép
// thu hẹp trong phạm vi level, không bao giờ mở rộng ra ngoài.
func NormalizePermissions(p models.SharePermissions) models.SharePermissions {
	level := AccessLevel(p.AccessLevel)
	fields := level.EditableFields()

	p.CanComment = p.CanComment && level.CanComment()
	p.CanEditStatus = p.CanEditStatus && fields[FieldStatus]
	p.CanEditDueDate = p.CanEditDueDate && fields[FieldDueDate]
	p.CanEditPriority = p.CanEditPriority && fields[FieldPriority]
	return p
}

// DefaultPermissions trả về bộ cờ đầy đủ nhất mà level cho phép
// (dùng khi tạo link mà client không gửi cờ chi tiết)
func DefaultPermissions(level AccessLevel) models.SharePermissions {
	fields := level.EditableFields()
	return models.SharePermissions{
		AccessLevel:     int(level),
		CanViewDetails:  true,
		CanComment:      level.CanComment(),
		CanEditStatus:   fields[FieldStatus],
		CanEditDueDate:  fields[FieldDueDate],
		CanEditPriority: fields[FieldPriority],
	}
}

// allowedFields tập field được sửa thực tế = field của level giao với các cờ
func allowedFields(p models.SharePermissions) map[string]bool {
	level := AccessLevel(p.AccessLevel)
	fields := level.EditableFields()

	allowed := make(map[string]bool, len(fields))
	if fields[FieldStatus] && p.CanEditStatus {
		allowed[FieldStatus] = true
	}
	if fields[FieldDueDate] && p.CanEditDueDate {
		allowed[FieldDueDate] = true
	}
	if fields[FieldPriority] && p.CanEditPriority {
		allowed[FieldPriority] = true
	}
	return allowed
}

// CheckTaskUpdate kiểm tra một update qua link chia sẻ theo nguyên tắc all-or-nothing:
// chỉ cần một field nằm ngoài tập cho phép là từ chối toàn bộ update.
func CheckTaskUpdate(p models.SharePermissions, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return common.ErrInvalidInput.WithDetails("update không có field nào")
	}

	allowed := allowedFields(p)
	for field := range fields {
		if !allowed[field] {
			return common.ErrPermissionDenied.WithDetails(fmt.Sprintf("field %q không được phép sửa với access level %d", field, p.AccessLevel))
		}
	}
	return nil
}

// CheckBatchTaskUpdate kiểm tra update nhiều task cùng lúc: một task vi phạm
// là từ chối cả batch, không ghi task nào.
func CheckBatchTaskUpdate(p models.SharePermissions, updates map[string]map[string]interface{}) error {
	if len(updates) == 0 {
		return common.ErrInvalidInput.WithDetails("batch update rỗng")
	}
	for taskID, fields := range updates {
		if err := CheckTaskUpdate(p, fields); err != nil {
			if appErr, ok := err.(*common.Error); ok {
				return appErr.WithDetails(fmt.Sprintf("task %s: %v", taskID, appErr.Details))
			}
			return err
		}
	}
	return nil
}
