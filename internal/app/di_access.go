package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	accessHTTP "github.com/allisson/ghostpass/internal/access/http"
	accessRepository "github.com/allisson/ghostpass/internal/access/repository"
	accessService "github.com/allisson/ghostpass/internal/access/service"
	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
	"github.com/allisson/ghostpass/internal/config"
	profileRepository "github.com/allisson/ghostpass/internal/profile/repository"
)

// ProfileRepository returns the profile repository based on database driver.
func (c *Container) ProfileRepository() (accessUseCase.ProfileRepository, error) {
	var err error
	c.profileRepositoryInit.Do(func() {
		c.profileRepository, err = c.initProfileRepository()
		if err != nil {
			c.setInitError("profileRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("profileRepository"); exists {
		return nil, storedErr
	}
	return c.profileRepository, nil
}

// TokenRepository returns the access-token repository based on database driver.
func (c *Container) TokenRepository() (accessUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.setInitError("tokenRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("tokenRepository"); exists {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// ViewEventRepository returns the profile view event repository based on database driver.
func (c *Container) ViewEventRepository() (accessUseCase.ViewEventRepository, error) {
	var err error
	c.viewEventRepositoryInit.Do(func() {
		c.viewEventRepository, err = c.initViewEventRepository()
		if err != nil {
			c.setInitError("viewEventRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("viewEventRepository"); exists {
		return nil, storedErr
	}
	return c.viewEventRepository, nil
}

// AuditLogRepository returns the audit log repository based on database driver.
func (c *Container) AuditLogRepository() (accessUseCase.AuditLogRepository, error) {
	var err error
	c.auditLogRepositoryInit.Do(func() {
		c.auditLogRepository, err = c.initAuditLogRepository()
		if err != nil {
			c.setInitError("auditLogRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("auditLogRepository"); exists {
		return nil, storedErr
	}
	return c.auditLogRepository, nil
}

// TokenService returns the bearer value generator.
func (c *Container) TokenService() accessService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = accessService.NewTokenService()
	})
	return c.tokenService
}

// QRService returns the QR code renderer.
func (c *Container) QRService() accessService.QRService {
	c.qrServiceInit.Do(func() {
		c.qrService = accessService.NewQRService(c.config.QRCodeSize)
	})
	return c.qrService
}

// AuditSigner returns the audit log signer.
func (c *Container) AuditSigner() accessService.AuditSigner {
	c.auditSignerInit.Do(func() {
		c.auditSigner = accessService.NewAuditSigner()
	})
	return c.auditSigner
}

// KMSService returns the KMS keeper factory.
func (c *Container) KMSService() accessService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = accessService.NewKMSService()
	})
	return c.kmsService
}

// AuditSigningKey returns the audit signing key, unwrapped through KMS when a
// provider is configured. A missing key yields nil and unsigned audit logs.
func (c *Container) AuditSigningKey() ([]byte, error) {
	var err error
	c.auditSigningKeyInit.Do(func() {
		c.auditSigningKey, err = c.initAuditSigningKey()
		if err != nil {
			c.setInitError("auditSigningKey", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("auditSigningKey"); exists {
		return nil, storedErr
	}
	return c.auditSigningKey, nil
}

// AuditLogUseCase returns the audit log use case, wrapped with metrics.
func (c *Container) AuditLogUseCase() (accessUseCase.AuditLogUseCase, error) {
	var err error
	c.auditLogUseCaseInit.Do(func() {
		c.auditLogUseCase, err = c.initAuditLogUseCase()
		if err != nil {
			c.setInitError("auditLogUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("auditLogUseCase"); exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// TokenUseCase returns the access-token use case, wrapped with metrics.
func (c *Container) TokenUseCase() (accessUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.setInitError("tokenUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("tokenUseCase"); exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the access-token HTTP handler.
func (c *Container) TokenHandler() (*accessHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		var tokenUseCase accessUseCase.TokenUseCase
		tokenUseCase, err = c.TokenUseCase()
		if err != nil {
			c.setInitError("tokenHandler", err)
			return
		}
		c.tokenHandler = accessHTTP.NewTokenHandler(tokenUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("tokenHandler"); exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// AuditLogHandler returns the audit log HTTP handler.
func (c *Container) AuditLogHandler() (*accessHTTP.AuditLogHandler, error) {
	var err error
	c.auditLogHandlerInit.Do(func() {
		var auditLogUseCase accessUseCase.AuditLogUseCase
		auditLogUseCase, err = c.AuditLogUseCase()
		if err != nil {
			c.setInitError("auditLogHandler", err)
			return
		}
		c.auditLogHandler = accessHTTP.NewAuditLogHandler(auditLogUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initError("auditLogHandler"); exists {
		return nil, storedErr
	}
	return c.auditLogHandler, nil
}

// TokenPolicies maps the configured per-purpose policies onto the domain.
func TokenPolicies(cfg *config.Config) accessDomain.Policies {
	toPolicy := func(p config.TokenPolicyConfig) accessDomain.Policy {
		return accessDomain.Policy{TTL: p.TTL, MaxTTL: p.MaxTTL, Reusable: p.Reusable}
	}
	return accessDomain.Policies{
		accessDomain.PurposeProfileView:    toPolicy(cfg.TokenProfileView),
		accessDomain.PurposeVenueAdmission: toPolicy(cfg.TokenVenueAdmission),
		accessDomain.PurposeGhostShare:     toPolicy(cfg.TokenGhostShare),
	}
}

func (c *Container) initProfileRepository() (accessUseCase.ProfileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for profile repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return profileRepository.NewMySQLProfileRepository(db), nil
	case "postgres":
		return profileRepository.NewPostgreSQLProfileRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTokenRepository() (accessUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return accessRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return accessRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initViewEventRepository() (accessUseCase.ViewEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for view event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return accessRepository.NewMySQLViewEventRepository(db), nil
	case "postgres":
		return accessRepository.NewPostgreSQLViewEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuditLogRepository() (accessUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return accessRepository.NewMySQLAuditLogRepository(db), nil
	case "postgres":
		return accessRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuditSigningKey() ([]byte, error) {
	keyURI := ""
	if c.config.KMSProvider != "" {
		if c.config.KMSKeyURI == "" {
			return nil, fmt.Errorf("KMS_KEY_URI is required when KMS_PROVIDER is set")
		}
		keyURI = c.config.KMSKeyURI
	}

	key, err := accessService.LoadSigningKey(
		context.Background(),
		c.KMSService(),
		keyURI,
		c.config.AuditSigningKey,
	)
	if errors.Is(err, accessDomain.ErrSigningKeyMissing) {
		c.Logger().Warn("audit signing key not configured, audit logs will be unsigned")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if keyURI != "" {
		c.Logger().Info("audit signing key unwrapped through KMS",
			slog.String("kms_provider", c.config.KMSProvider))
	}
	return key, nil
}

func (c *Container) initAuditLogUseCase() (accessUseCase.AuditLogUseCase, error) {
	repo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	signingKey, err := c.AuditSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load audit signing key: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for audit log use case: %w", err)
	}

	useCase := accessUseCase.NewAuditLogUseCase(repo, c.AuditSigner(), signingKey)
	return accessUseCase.NewAuditLogUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initTokenUseCase() (accessUseCase.TokenUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	profileRepo, err := c.ProfileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile repository for token use case: %w", err)
	}

	viewEventRepo, err := c.ViewEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get view event repository for token use case: %w", err)
	}

	// Revocations are audited through the undecorated use case so they are not
	// counted twice.
	auditRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for token use case: %w", err)
	}
	signingKey, err := c.AuditSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load audit signing key: %w", err)
	}
	auditLogUseCase := accessUseCase.NewAuditLogUseCase(auditRepo, c.AuditSigner(), signingKey)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := accessUseCase.NewTokenUseCase(
		TokenPolicies(c.config),
		txManager,
		tokenRepo,
		profileRepo,
		viewEventRepo,
		auditLogUseCase,
		c.TokenService(),
		c.QRService(),
		c.Logger(),
	)
	return accessUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}
