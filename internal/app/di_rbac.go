package app

import (
	"fmt"

	rbacHTTP "github.com/julianstoll1/access-dashboard/internal/rbac/http"
	rbacRepository "github.com/julianstoll1/access-dashboard/internal/rbac/repository"
	rbacUseCase "github.com/julianstoll1/access-dashboard/internal/rbac/usecase"
)

// PermissionRepository returns the permission repository based on database driver.
func (c *Container) PermissionRepository() (rbacUseCase.PermissionRepository, error) {
	var err error
	c.permissionRepoInit.Do(func() {
		c.permissionRepo, err = c.initPermissionRepository()
		if err != nil {
			c.initErrors["permissionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionRepo"]; exists {
		return nil, storedErr
	}
	return c.permissionRepo, nil
}

// RoleRepository returns the role repository based on database driver.
func (c *Container) RoleRepository() (rbacUseCase.RoleRepository, error) {
	var err error
	c.roleRepoInit.Do(func() {
		c.roleRepo, err = c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// PermissionUseCase returns the permission use case.
func (c *Container) PermissionUseCase() (rbacUseCase.PermissionUseCase, error) {
	var err error
	c.permissionUseCaseInit.Do(func() {
		c.permissionUseCase, err = c.initPermissionUseCase()
		if err != nil {
			c.initErrors["permissionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionUseCase"]; exists {
		return nil, storedErr
	}
	return c.permissionUseCase, nil
}

// RoleUseCase returns the role use case.
func (c *Container) RoleUseCase() (rbacUseCase.RoleUseCase, error) {
	var err error
	c.roleUseCaseInit.Do(func() {
		c.roleUseCase, err = c.initRoleUseCase()
		if err != nil {
			c.initErrors["roleUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleUseCase"]; exists {
		return nil, storedErr
	}
	return c.roleUseCase, nil
}

// PermissionHandler returns the HTTP handler for permission management.
func (c *Container) PermissionHandler() (*rbacHTTP.PermissionHandler, error) {
	var err error
	c.permissionHandlerInit.Do(func() {
		c.permissionHandler, err = c.initPermissionHandler()
		if err != nil {
			c.initErrors["permissionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionHandler"]; exists {
		return nil, storedErr
	}
	return c.permissionHandler, nil
}

// RoleHandler returns the HTTP handler for role management.
func (c *Container) RoleHandler() (*rbacHTTP.RoleHandler, error) {
	var err error
	c.roleHandlerInit.Do(func() {
		c.roleHandler, err = c.initRoleHandler()
		if err != nil {
			c.initErrors["roleHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleHandler"]; exists {
		return nil, storedErr
	}
	return c.roleHandler, nil
}

// initPermissionRepository creates the permission repository based on the database driver.
func (c *Container) initPermissionRepository() (rbacUseCase.PermissionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for permission repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return rbacRepository.NewPostgreSQLPermissionRepository(db), nil
	case "mysql":
		return rbacRepository.NewMySQLPermissionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRoleRepository creates the role repository based on the database driver.
func (c *Container) initRoleRepository() (rbacUseCase.RoleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return rbacRepository.NewPostgreSQLRoleRepository(db), nil
	case "mysql":
		return rbacRepository.NewMySQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPermissionUseCase creates the permission use case with all its dependencies.
func (c *Container) initPermissionUseCase() (rbacUseCase.PermissionUseCase, error) {
	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for permission use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for permission use case: %w", err)
	}

	baseUseCase := rbacUseCase.NewPermissionUseCase(permissionRepo, auditLogUseCase)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for permission use case: %w", err)
		}
		return rbacUseCase.NewPermissionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initRoleUseCase creates the role use case with all its dependencies.
func (c *Container) initRoleUseCase() (rbacUseCase.RoleUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for role use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for role use case: %w", err)
	}

	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for role use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for role use case: %w", err)
	}

	baseUseCase := rbacUseCase.NewRoleUseCase(txManager, roleRepo, permissionRepo, auditLogUseCase)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for role use case: %w", err)
		}
		return rbacUseCase.NewRoleUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initPermissionHandler creates the permission HTTP handler with all its dependencies.
func (c *Container) initPermissionHandler() (*rbacHTTP.PermissionHandler, error) {
	useCase, err := c.PermissionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission use case for permission handler: %w", err)
	}

	return rbacHTTP.NewPermissionHandler(useCase, c.Logger()), nil
}

// initRoleHandler creates the role HTTP handler with all its dependencies.
func (c *Container) initRoleHandler() (*rbacHTTP.RoleHandler, error) {
	useCase, err := c.RoleUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get role use case for role handler: %w", err)
	}

	return rbacHTTP.NewRoleHandler(useCase, c.Logger()), nil
}
