package app

import (
	auditRepository "github.com/allisson/llm-config/internal/audit/repository"
	auditUseCase "github.com/allisson/llm-config/internal/audit/usecase"
)

// AuditRepository returns the file-backed audit event repository.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = auditRepository.NewFileAuditRepository(c.config.AuditLogFile(), c.Logger())
		if err != nil {
			c.initErrors["auditRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepository"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the asynchronous audit logger.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		var repository auditUseCase.AuditRepository
		repository, err = c.AuditRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		c.auditUseCase = auditUseCase.NewAuditUseCase(repository, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}
