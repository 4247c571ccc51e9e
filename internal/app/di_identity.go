package app

import (
	"fmt"

	identityRepository "github.com/allisson/ghostpass/internal/identity/repository"
	identityService "github.com/allisson/ghostpass/internal/identity/service"
	identityUseCase "github.com/allisson/ghostpass/internal/identity/usecase"
)

// IdentityRepository returns the identity role repository based on database driver.
func (c *Container) IdentityRepository() (identityUseCase.IdentityRepository, error) {
	var err error
	c.identityRepositoryInit.Do(func() {
		c.identityRepository, err = c.initIdentityRepository()
		if err != nil {
			c.setInitError("identityRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("identityRepository"); exists {
		return nil, storedErr
	}
	return c.identityRepository, nil
}

// JWTVerifier returns the caller JWT verifier.
func (c *Container) JWTVerifier() identityService.JWTVerifier {
	c.jwtVerifierInit.Do(func() {
		c.jwtVerifier = identityService.NewJWTVerifier(
			c.config.AuthJWTSecret,
			c.config.AuthJWTIssuer,
			c.config.AuthJWTAudience,
		)
	})
	return c.jwtVerifier
}

// IdentityUseCase returns the identity use case.
func (c *Container) IdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	var err error
	c.identityUseCaseInit.Do(func() {
		c.identityUseCase, err = c.initIdentityUseCase()
		if err != nil {
			c.setInitError("identityUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("identityUseCase"); exists {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

func (c *Container) initIdentityRepository() (identityUseCase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLIdentityRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLIdentityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initIdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	if c.config.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	repo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for identity use case: %w", err)
	}

	return identityUseCase.NewIdentityUseCase(repo, c.JWTVerifier()), nil
}
