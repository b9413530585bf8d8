package share

import (
	"errors"
	"testing"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
)

func fullPermissions(level AccessLevel) models.SharePermissions {
	return models.SharePermissions{
		AccessLevel:     int(level),
		CanViewDetails:  true,
		CanComment:      true,
		CanEditStatus:   true,
		CanEditDueDate:  true,
		CanEditPriority: true,
	}
}

func TestEditableFields_TheoTungLevel(t *testing.T) {
	cases := []struct {
		level AccessLevel
		want  []string
	}{
		{AccessLevelView, nil},
		{AccessLevelComment, nil},
		{AccessLevelEditStatus, []string{FieldStatus}},
		{AccessLevelEditFull, []string{FieldStatus, FieldDueDate, FieldPriority}},
		{AccessLevel(0), nil},
		{AccessLevel(99), nil},
	}
	for _, tc := range cases {
		fields := tc.level.EditableFields()
		if len(fields) != len(tc.want) {
			t.Errorf("level %d: muốn %d field, nhận %d (%v)", tc.level, len(tc.want), len(fields), fields)
			continue
		}
		for _, f := range tc.want {
			if !fields[f] {
				t.Errorf("level %d: thiếu field %q", tc.level, f)
			}
		}
	}
}

func TestCheckTaskUpdate_Level3ChiDuocDoiStatus(t *testing.T) {
	p := fullPermissions(AccessLevelEditStatus)

	if err := CheckTaskUpdate(p, map[string]interface{}{FieldStatus: "done"}); err != nil {
		t.Errorf("đổi statusCode với level 3 phải được phép, nhận lỗi: %v", err)
	}

	err := CheckTaskUpdate(p, map[string]interface{}{FieldDueDate: int64(1700000000000)})
	if err == nil {
		t.Fatal("đổi dueDate với level 3 phải bị từ chối")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrPermissionDenied) {
		t.Errorf("muốn ErrPermissionDenied, nhận: %v", err)
	}
}

func TestCheckTaskUpdate_Level4DuocCa3Field(t *testing.T) {
	p := fullPermissions(AccessLevelEditFull)
	fields := map[string]interface{}{
		FieldStatus:   "doing",
		FieldDueDate:  int64(1700000000000),
		FieldPriority: "high",
	}
	if err := CheckTaskUpdate(p, fields); err != nil {
		t.Errorf("level 4 phải được sửa cả 3 field, nhận lỗi: %v", err)
	}

	// Field ngoài danh sách vẫn bị chặn dù là level cao nhất
	if err := CheckTaskUpdate(p, map[string]interface{}{"title": "hack"}); err == nil {
		t.Error("sửa title qua link chia sẻ phải bị từ chối ở mọi level")
	}
}

func TestCheckTaskUpdate_AllOrNothing(t *testing.T) {
	p := fullPermissions(AccessLevelEditStatus)
	// Một field hợp lệ + một field không hợp lệ => từ chối toàn bộ
	fields := map[string]interface{}{
		FieldStatus:  "done",
		FieldDueDate: int64(1700000000000),
	}
	if err := CheckTaskUpdate(p, fields); err == nil {
		t.Error("update có field ngoài quyền phải bị từ chối toàn bộ, không áp dụng một phần")
	}
}

func TestCheckTaskUpdate_LevelLaVaReadOnly(t *testing.T) {
	for _, level := range []AccessLevel{AccessLevelView, AccessLevelComment, AccessLevel(0), AccessLevel(99)} {
		p := fullPermissions(level)
		if err := CheckTaskUpdate(p, map[string]interface{}{FieldStatus: "done"}); err == nil {
			t.Errorf("level %d không được phép ghi nhưng CheckTaskUpdate cho qua", level)
		}
	}
}

func TestCheckTaskUpdate_UpdateRong(t *testing.T) {
	p := fullPermissions(AccessLevelEditFull)
	err := CheckTaskUpdate(p, map[string]interface{}{})
	if err == nil {
		t.Fatal("update rỗng phải trả lỗi")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) || !appErr.Is(common.ErrInvalidInput) {
		t.Errorf("muốn ErrInvalidInput, nhận: %v", err)
	}
}

func TestCheckTaskUpdate_CoChiThuHep(t *testing.T) {
	// Level 4 nhưng cờ canEditDueDate = false => dueDate bị chặn
	p := fullPermissions(AccessLevelEditFull)
	p.CanEditDueDate = false

	if err := CheckTaskUpdate(p, map[string]interface{}{FieldStatus: "done"}); err != nil {
		t.Errorf("statusCode vẫn phải được phép, nhận lỗi: %v", err)
	}
	if err := CheckTaskUpdate(p, map[string]interface{}{FieldDueDate: int64(1)}); err == nil {
		t.Error("canEditDueDate=false phải chặn được dueDate dù level là 4")
	}
}

func TestNormalizePermissions_CoKhongMoRongQuaLevel(t *testing.T) {
	// Level 1 nhưng client gửi đủ cờ => mọi cờ ghi phải về false
	p := NormalizePermissions(fullPermissions(AccessLevelView))
	if p.CanComment || p.CanEditStatus || p.CanEditDueDate || p.CanEditPriority {
		t.Errorf("level 1 không được giữ cờ ghi nào, nhận: %+v", p)
	}

	// Level 3: chỉ giữ được CanEditStatus và CanComment
	p = NormalizePermissions(fullPermissions(AccessLevelEditStatus))
	if !p.CanComment || !p.CanEditStatus {
		t.Errorf("level 3 phải giữ canComment và canEditStatus, nhận: %+v", p)
	}
	if p.CanEditDueDate || p.CanEditPriority {
		t.Errorf("level 3 không được giữ canEditDueDate/canEditPriority, nhận: %+v", p)
	}
}

func TestCheckBatchTaskUpdate_MotTaskViPhamLaTuChoiCaBatch(t *testing.T) {
	p := fullPermissions(AccessLevelEditStatus)
	updates := map[string]map[string]interface{}{
		"task-a": {FieldStatus: "done"},
		"task-b": {FieldPriority: "high"}, // vi phạm
	}
	if err := CheckBatchTaskUpdate(p, updates); err == nil {
		t.Fatal("batch có một task vi phạm phải bị từ chối toàn bộ")
	}

	// Batch sạch thì qua
	clean := map[string]map[string]interface{}{
		"task-a": {FieldStatus: "done"},
		"task-b": {FieldStatus: "doing"},
	}
	if err := CheckBatchTaskUpdate(p, clean); err != nil {
		t.Errorf("batch hợp lệ phải được chấp nhận, nhận lỗi: %v", err)
	}
}

func TestCheckBatchTaskUpdate_BatchRong(t *testing.T) {
	p := fullPermissions(AccessLevelEditFull)
	if err := CheckBatchTaskUpdate(p, map[string]map[string]interface{}{}); err == nil {
		t.Error("batch rỗng phải trả lỗi")
	}
}
