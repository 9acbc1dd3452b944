// Package access содержит политику доступа по ролям и филиалам.
package access

import "github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"

// Action описывает защищаемое действие.
type Action string

const (
	ActionUserRegister      Action = "user:register"
	ActionUserList          Action = "user:list"
	ActionReportTotals      Action = "report:totals"
	ActionProcurementList   Action = "procurement:list"
	ActionProcurementCreate Action = "procurement:create"
	ActionProcurementRead   Action = "procurement:read"
	ActionProcurementUpdate Action = "procurement:update"
	ActionProcurementDelete Action = "procurement:delete"
	ActionRestockList       Action = "restock:list"
	ActionSaleCreate        Action = "sale:create"
	ActionSaleList          Action = "sale:list"
)

type rule struct {
	roles []model.Role
	// branchScoped требует совпадения филиала сотрудника с филиалом ресурса.
	// Директор видит все филиалы.
	branchScoped bool
}

var policy = map[Action]rule{
	ActionUserRegister:      {roles: []model.Role{model.RoleDirector}},
	ActionUserList:          {roles: []model.Role{model.RoleDirector}},
	ActionReportTotals:      {roles: []model.Role{model.RoleDirector}},
	ActionProcurementList:   {roles: []model.Role{model.RoleManager, model.RoleDirector}, branchScoped: true},
	ActionProcurementCreate: {roles: []model.Role{model.RoleManager}, branchScoped: true},
	ActionProcurementRead:   {roles: []model.Role{model.RoleManager}, branchScoped: true},
	ActionProcurementUpdate: {roles: []model.Role{model.RoleManager}, branchScoped: true},
	ActionProcurementDelete: {roles: []model.Role{model.RoleManager}, branchScoped: true},
	ActionRestockList:       {roles: []model.Role{model.RoleManager}, branchScoped: true},
	ActionSaleCreate:        {roles: []model.Role{model.RoleManager, model.RoleSalesAgent}, branchScoped: true},
	ActionSaleList:          {roles: []model.Role{model.RoleDirector, model.RoleManager, model.RoleSalesAgent}, branchScoped: true},
}

// Authorize сообщает, может ли actor выполнить action над ресурсом филиала branch.
// Пустой branch означает действие без привязки к филиалу.
func Authorize(actor model.Actor, action Action, branch model.Branch) bool {
	r, ok := policy[action]
	if !ok {
		return false
	}

	if !hasRole(r.roles, actor.Role) {
		return false
	}

	if !r.branchScoped || branch == "" || actor.Role == model.RoleDirector {
		return true
	}

	return actor.Branch == branch
}

// Roles возвращает роли, которым разрешено действие.
func Roles(action Action) []model.Role {
	r := policy[action]
	out := make([]model.Role, len(r.roles))
	copy(out, r.roles)
	return out
}

func hasRole(roles []model.Role, role model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
