package http

import "github.com/codecai/factu-core/internal/domain/entity"

// Operation identifica una operación protegida de la API.
type Operation string

const (
	OpAuthProfile Operation = "auth.profile"
	OpAuthLogout  Operation = "auth.logout"

	OpUserCreate Operation = "users.create"
	OpUserList   Operation = "users.list"
	OpUserMe     Operation = "users.me"
	OpUserGet    Operation = "users.get"
	OpUserUpdate Operation = "users.update"
	OpUserDelete Operation = "users.delete"

	OpRoleCreate Operation = "roles.create"
	OpRoleList   Operation = "roles.list"
	OpRoleGet    Operation = "roles.get"
	OpRoleUpdate Operation = "roles.update"
	OpRoleDelete Operation = "roles.delete"

	OpShopCreate     Operation = "shops.create"
	OpShopList       Operation = "shops.list"
	OpShopMine       Operation = "shops.mine"
	OpShopGet        Operation = "shops.get"
	OpShopUpdate     Operation = "shops.update"
	OpShopAssign     Operation = "shops.assignUsers"
	OpShopRemoveUser Operation = "shops.removeUser"
	OpShopSoftDelete Operation = "shops.softDelete"
	OpShopHardDelete Operation = "shops.hardDelete"

	OpBillCreate      Operation = "bill.create"
	OpBillList        Operation = "bill.list"
	OpBillListByUser  Operation = "bill.listByUser"
	OpBillGetByNumber Operation = "bill.getByNumber"
	OpBillGet         Operation = "bill.get"
	OpBillPDF         Operation = "bill.pdf"
	OpBillUpdate      Operation = "bill.update"
	OpBillDelete      Operation = "bill.delete"

	OpBillDetailCreate     Operation = "billDetails.create"
	OpBillDetailList       Operation = "billDetails.list"
	OpBillDetailListByBill Operation = "billDetails.listByBill"
	OpBillDetailGet        Operation = "billDetails.get"
	OpBillDetailUpdate     Operation = "billDetails.update"
	OpBillDetailDelete     Operation = "billDetails.delete"
)

var (
	adminOnly      = []string{entity.RoleAdmin}
	adminOrManager = []string{entity.RoleAdmin, entity.RoleManager}
	authenticated  []string
)

// Policy tabla operación -> roles permitidos. Lista vacía: basta con estar autenticado.
// Toda operación registrada en el router debe figurar aquí.
var Policy = map[Operation][]string{
	OpAuthProfile: authenticated,
	OpAuthLogout:  authenticated,

	OpUserCreate: adminOnly,
	OpUserList:   adminOnly,
	OpUserMe:     authenticated,
	OpUserGet:    authenticated,
	OpUserUpdate: adminOnly,
	OpUserDelete: adminOnly,

	OpRoleCreate: adminOnly,
	OpRoleList:   adminOnly,
	OpRoleGet:    adminOnly,
	OpRoleUpdate: adminOnly,
	OpRoleDelete: adminOnly,

	OpShopCreate:     adminOnly,
	OpShopList:       adminOnly,
	OpShopMine:       authenticated,
	OpShopGet:        authenticated,
	OpShopUpdate:     adminOnly,
	OpShopAssign:     adminOnly,
	OpShopRemoveUser: adminOnly,
	OpShopSoftDelete: adminOnly,
	OpShopHardDelete: adminOnly,

	OpBillCreate:      adminOrManager,
	OpBillList:        adminOrManager,
	OpBillListByUser:  adminOrManager,
	OpBillGetByNumber: adminOrManager,
	OpBillGet:         adminOrManager,
	OpBillPDF:         adminOrManager,
	OpBillUpdate:      adminOrManager,
	OpBillDelete:      adminOnly,

	OpBillDetailCreate:     authenticated,
	OpBillDetailList:       authenticated,
	OpBillDetailListByBill: authenticated,
	OpBillDetailGet:        authenticated,
	OpBillDetailUpdate:     authenticated,
	OpBillDetailDelete:     authenticated,
}

// AllowedRoles roles permitidos para op. ok=false si la operación no está en la tabla.
func AllowedRoles(op Operation) (roles []string, ok bool) {
	roles, ok = Policy[op]
	return roles, ok
}
