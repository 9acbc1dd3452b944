package access

import (
	"testing"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

func TestAuthorize(t *testing.T) {
	manager := model.Actor{Role: model.RoleManager, Branch: model.BranchMaganjo}
	agent := model.Actor{Role: model.RoleSalesAgent, Branch: model.BranchMatugga}
	director := model.Actor{Role: model.RoleDirector, Branch: model.BranchHeadquarters}
	admin := model.Actor{Role: model.RoleITAdmin, Branch: model.BranchHeadquarters}

	tests := []struct {
		name   string
		actor  model.Actor
		action Action
		branch model.Branch
		want   bool
	}{
		{"manager sells in own branch", manager, ActionSaleCreate, model.BranchMaganjo, true},
		{"manager cannot sell in other branch", manager, ActionSaleCreate, model.BranchMatugga, false},
		{"agent sells in own branch", agent, ActionSaleCreate, model.BranchMatugga, true},
		{"director cannot sell", director, ActionSaleCreate, model.BranchMaganjo, false},
		{"agent cannot procure", agent, ActionProcurementCreate, model.BranchMatugga, false},
		{"manager procures in own branch", manager, ActionProcurementCreate, model.BranchMaganjo, true},
		{"manager cannot read other branch batch", manager, ActionProcurementRead, model.BranchMatugga, false},
		{"director lists procurements of any branch", director, ActionProcurementList, model.BranchMatugga, true},
		{"director registers users", director, ActionUserRegister, "", true},
		{"manager cannot register users", manager, ActionUserRegister, "", false},
		{"it admin has no business actions", admin, ActionSaleList, model.BranchMaganjo, false},
		{"unknown action is denied", director, Action("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.actor, tt.action, tt.branch)
			if got != tt.want {
				t.Fatalf("Authorize(%s, %s, %s) = %v, want %v", tt.actor.Role, tt.action, tt.branch, got, tt.want)
			}
		})
	}
}

func TestRolesReturnsCopy(t *testing.T) {
	roles := Roles(ActionSaleCreate)
	if len(roles) != 2 {
		t.Fatalf("roles = %v, want 2 entries", roles)
	}

	roles[0] = model.RoleITAdmin
	if Roles(ActionSaleCreate)[0] == model.RoleITAdmin {
		t.Fatalf("Roles must not expose the policy table")
	}
}
