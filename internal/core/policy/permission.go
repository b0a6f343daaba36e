package policy

import "github.com/d1sgu1sed/DogCollars/internal/core/domain"

// CanModifyUser decides whether actor may update or deactivate target.
//
// Any request involving a superadmin, as actor or as target, is rejected
// outright with ErrSuperAdminProtected. The superadmin account manages
// roles through CanManagePrivileges only. Otherwise a user may always
// modify their own record, modifying someone else requires ADMIN, and an
// admin may not touch another admin.
func CanModifyUser(target, actor *domain.User) (bool, error) {
	if actor.Roles.Has(domain.RoleSuperAdmin) || target.Roles.Has(domain.RoleSuperAdmin) {
		return false, domain.ErrSuperAdminProtected
	}
	if target.ID == actor.ID {
		return true, nil
	}
	if !actor.Roles.IsPrivileged() {
		return false, nil
	}
	// actor is a plain admin from here on
	if target.Roles.Has(domain.RoleAdmin) {
		return false, nil
	}
	return true, nil
}

// CanModifyDog is shared by dog update, location update and delete.
// Privileged actors may modify any dog; everyone else only the dogs they
// created.
func CanModifyDog(target *domain.Dog, actor *domain.User) bool {
	if actor.Roles.IsPrivileged() {
		return true
	}
	return target.CreatedBy == actor.ID
}

// CanModifyTask guards task update and cancellation.
func CanModifyTask(target *domain.Task, actor *domain.User) bool {
	if actor.Roles.IsPrivileged() {
		return true
	}
	return target.CreatedBy == actor.ID
}

// CanManagePrivileges decides whether actor may grant or revoke ADMIN on
// target. Only a superadmin may, never on themself, and never on another
// superadmin.
func CanManagePrivileges(target, actor *domain.User) error {
	if !actor.Roles.Has(domain.RoleSuperAdmin) {
		return domain.ErrForbidden
	}
	if target.ID == actor.ID {
		return domain.ErrSelfPrivilege
	}
	if target.Roles.Has(domain.RoleSuperAdmin) {
		return domain.ErrSuperAdminProtected
	}
	return nil
}
