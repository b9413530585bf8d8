package share

import (
	"sort"
	"strings"

	models "meta_task/core/api/models/mongodb"
	"meta_task/core/common"
	"meta_task/core/utility"
)

// adminPathPrefix các path admin không bao giờ xuất hiện trong session chia sẻ,
// bất kể link cấu hình allowedNavItems thế nào
const adminPathPrefix = "/admin"

// FilterNavItems lọc navigation items cho một session chia sẻ.
// Một item lọt qua khi và chỉ khi:
//   - code nằm trong allowedNavItems của link
//   - sharedAsRole của link nằm trong danh sách roles của item
//   - path không nằm dưới /admin
//
// Kết quả sắp xếp ổn định theo order tăng dần.
func FilterNavItems(items []models.NavigationItem, link *models.SharedLink) []models.NavigationItem {
	result := make([]models.NavigationItem, 0, len(items))
	for _, item := range items {
		if !utility.Contains(link.AllowedNavItems, item.Code) {
			continue
		}
		if !utility.Contains(item.Roles, link.SharedAsRole) {
			continue
		}
		if strings.HasPrefix(item.Path, adminPathPrefix) {
			continue
		}
		result = append(result, item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Order < result[j].Order
	})
	return result
}

// ResolveNavItem phân giải một nav code trong phạm vi của link.
// Hai trạng thái lỗi phải phân biệt rõ, không được gộp:
//   - code không tồn tại trong hệ thống        -> ErrNotFound
//   - code tồn tại nhưng ngoài phạm vi của link -> ErrPermissionDenied
func ResolveNavItem(items []models.NavigationItem, link *models.SharedLink, code string) (*models.NavigationItem, error) {
	var found *models.NavigationItem
	for i := range items {
		if items[i].Code == code {
			found = &items[i]
			break
		}
	}
	if found == nil {
		return nil, common.ErrNotFound.WithDetails("navigation item không tồn tại: " + code)
	}

	if !utility.Contains(link.AllowedNavItems, code) ||
		!utility.Contains(found.Roles, link.SharedAsRole) ||
		strings.HasPrefix(found.Path, adminPathPrefix) {
		return nil, common.ErrPermissionDenied.WithDetails("navigation item ngoài phạm vi của link: " + code)
	}
	return found, nil
}
