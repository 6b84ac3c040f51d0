package service

import (
	"context"
	"fmt"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"` // Permission codes
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRolePermissionsRequest struct {
	PermissionCodes []string `json:"permission_codes" binding:"required"`
}

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"is_system"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	UpdateRolePermissions(ctx context.Context, roleID string, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	SeedDefaultRolesAndPermissions(ctx context.Context) error
}

type roleService struct {
	roleRepo  repository.RoleRepository
	txManager repository.TransactionManager
}

func NewRoleService(roleRepo repository.RoleRepository, txManager repository.TransactionManager) RoleService {
	return &roleService{roleRepo: roleRepo, txManager: txManager}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	resp := toRoleResponse(*role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	role := model.Role{
		Name:        req.Name,
		Description: req.Description,
		IsSystem:    false,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roleRepo.Create(txCtx, &role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		if len(req.Permissions) > 0 {
			perms, err := s.roleRepo.FindPermissionsByCodes(txCtx, req.Permissions)
			if err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := s.roleRepo.ReplacePermissions(txCtx, &role, perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID.String())
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	oldName := role.Name
	role.Name = req.Name
	role.Description = req.Description

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	middleware.ClearPermissionCache(oldName)
	return s.GetRole(ctx, id)
}

func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("role not found: %w", err)
	}
	if role.IsSystem {
		return fmt.Errorf("cannot delete system role '%s'", role.Name)
	}

	if err := s.roleRepo.ReplacePermissions(ctx, role, nil); err != nil {
		return fmt.Errorf("failed to clear permissions: %w", err)
	}
	if err := s.roleRepo.Delete(ctx, roleID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	middleware.ClearPermissionCache(role.Name)
	return nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.roleRepo.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}

func (s *roleService) UpdateRolePermissions(ctx context.Context, roleID string, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	id, err := uuid.Parse(roleID)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	var perms []model.Permission
	if len(req.PermissionCodes) > 0 {
		perms, err = s.roleRepo.FindPermissionsByCodes(ctx, req.PermissionCodes)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch permissions: %w", err)
		}
	}

	if err := s.roleRepo.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, fmt.Errorf("failed to update permissions: %w", err)
	}

	middleware.ClearPermissionCache(role.Name)
	return s.GetRole(ctx, roleID)
}

// SeedDefaultRolesAndPermissions creates the default permissions and roles if
// not already present. Safe to run on every startup.
func (s *roleService) SeedDefaultRolesAndPermissions(ctx context.Context) error {
	defaultPermissions := []model.Permission{
		{Code: "dashboard.read", Name: "View dashboard statistics", Group: "dashboard"},
		{Code: "deceased.read", Name: "View deceased records", Group: "deceased"},
		{Code: "deceased.write", Name: "Manage deceased records", Group: "deceased"},
		{Code: "cases.read", Name: "View embalming cases", Group: "cases"},
		{Code: "cases.write", Name: "Manage embalming cases", Group: "cases"},
		{Code: "finance.read", Name: "View services and invoices", Group: "finance"},
		{Code: "finance.write", Name: "Manage services and invoices", Group: "finance"},
		{Code: "payroll.read", Name: "View staff and payslips", Group: "payroll"},
		{Code: "payroll.run", Name: "Run payroll and manage staff", Group: "payroll"},
		{Code: "fleet.read", Name: "View vehicles and trips", Group: "fleet"},
		{Code: "fleet.write", Name: "Manage vehicles and trips", Group: "fleet"},
		{Code: "inventory.read", Name: "View inventory", Group: "inventory"},
		{Code: "inventory.write", Name: "Manage inventory", Group: "inventory"},
		{Code: "contacts.read", Name: "View family contacts", Group: "contacts"},
		{Code: "contacts.write", Name: "Manage contacts and messages", Group: "contacts"},
		{Code: "users.manage", Name: "Manage user accounts", Group: "users"},
		{Code: "roles.manage", Name: "Manage roles and permissions", Group: "roles"},
		{Code: "audit.read", Name: "View audit log", Group: "audit"},
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		codes := make([]string, 0, len(defaultPermissions))
		for _, p := range defaultPermissions {
			codes = append(codes, p.Code)
		}
		existing, err := s.roleRepo.FindPermissionsByCodes(txCtx, codes)
		if err != nil {
			return fmt.Errorf("failed to fetch existing permissions: %w", err)
		}
		existingByCode := make(map[string]model.Permission, len(existing))
		for _, p := range existing {
			existingByCode[p.Code] = p
		}

		permByCode := make(map[string]model.Permission, len(defaultPermissions))
		for _, p := range defaultPermissions {
			if found, ok := existingByCode[p.Code]; ok {
				permByCode[p.Code] = found
				continue
			}
			created := p
			if err := s.roleRepo.CreatePermission(txCtx, &created); err != nil {
				return fmt.Errorf("failed to seed permission '%s': %w", p.Code, err)
			}
			permByCode[p.Code] = created
		}

		roleDefinitions := []struct {
			Name        string
			Description string
			PermCodes   []string
		}{
			{
				Name:        "admin",
				Description: "Administrator with full access",
				PermCodes:   codes,
			},
			{
				Name:        "manager",
				Description: "Manager: operations, finance, payroll",
				PermCodes: []string{
					"dashboard.read",
					"deceased.read", "deceased.write",
					"cases.read", "cases.write",
					"finance.read", "finance.write",
					"payroll.read", "payroll.run",
					"fleet.read", "fleet.write",
					"inventory.read", "inventory.write",
					"contacts.read", "contacts.write",
					"audit.read",
				},
			},
			{
				Name:        "staff",
				Description: "Front-desk and operations staff",
				PermCodes: []string{
					"deceased.read", "deceased.write",
					"cases.read", "cases.write",
					"finance.read",
					"fleet.read", "fleet.write",
					"inventory.read", "inventory.write",
					"contacts.read", "contacts.write",
				},
			},
		}

		for _, def := range roleDefinitions {
			role, err := s.roleRepo.FindByName(txCtx, def.Name)
			if err != nil {
				role = &model.Role{
					Name:        def.Name,
					Description: def.Description,
					IsSystem:    true,
				}
				if err := s.roleRepo.Create(txCtx, role); err != nil {
					return fmt.Errorf("failed to seed role '%s': %w", def.Name, err)
				}
			}

			perms := make([]model.Permission, 0, len(def.PermCodes))
			for _, code := range def.PermCodes {
				if p, ok := permByCode[code]; ok {
					perms = append(perms, p)
				}
			}
			if err := s.roleRepo.ReplacePermissions(txCtx, role, perms); err != nil {
				return fmt.Errorf("failed to assign permissions to role '%s': %w", def.Name, err)
			}
			middleware.ClearPermissionCache(def.Name)
		}

		return nil
	})
}

// --- Mapping ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}

	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:    p.ID.String(),
		Code:  p.Code,
		Name:  p.Name,
		Group: p.Group,
	}
}
