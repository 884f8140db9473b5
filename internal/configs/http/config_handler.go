// Package http provides HTTP handlers for configuration management:
// versioned reads and writes, secrets, environment override resolution,
// history and rollback.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/allisson/llm-config/internal/audit/domain"
	auditUseCase "github.com/allisson/llm-config/internal/audit/usecase"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
	"github.com/allisson/llm-config/internal/configs/http/dto"
	configsUseCase "github.com/allisson/llm-config/internal/configs/usecase"
	"github.com/allisson/llm-config/internal/httputil"
	"github.com/allisson/llm-config/internal/security"
	customValidation "github.com/allisson/llm-config/internal/validation"
)

// ConfigHandler handles HTTP requests for configuration management. Every
// mutation and secret access is recorded through the audit use case.
type ConfigHandler struct {
	configUseCase configsUseCase.ConfigUseCase
	auditUseCase  auditUseCase.AuditUseCase
	logger        *slog.Logger
}

// NewConfigHandler creates a new config handler with required dependencies.
func NewConfigHandler(
	configUseCase configsUseCase.ConfigUseCase,
	auditUseCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
) *ConfigHandler {
	return &ConfigHandler{
		configUseCase: configUseCase,
		auditUseCase:  auditUseCase,
		logger:        logger,
	}
}

// pathIdentifiers extracts and validates the namespace and key URL parameters.
func (h *ConfigHandler) pathIdentifiers(c *gin.Context) (namespace, key string, ok bool) {
	namespace = c.Param("namespace")
	key = c.Param("key")

	if err := validation.Validate(namespace, validation.Required, customValidation.Identifier); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(fmt.Errorf("namespace: %w", err)), h.logger)
		return "", "", false
	}
	if key != "" {
		if err := validation.Validate(key, customValidation.Identifier); err != nil {
			httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(fmt.Errorf("key: %w", err)), h.logger)
			return "", "", false
		}
	}
	return namespace, key, true
}

// environment resolves the environment from the "env" query parameter or
// the request body value, defaulting to base.
func (h *ConfigHandler) environment(c *gin.Context, bodyValue string) (configsDomain.Environment, bool) {
	raw := c.Query("env")
	if raw == "" {
		raw = bodyValue
	}
	if raw == "" {
		return configsDomain.EnvBase, true
	}

	environment, err := configsDomain.ParseEnvironment(raw)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return "", false
	}
	return environment, true
}

// user returns the identity attached by the security pipeline.
func (h *ConfigHandler) user(c *gin.Context) string {
	if sc, ok := security.GetContext(c); ok && sc.UserID != "" {
		return sc.UserID
	}
	return "anonymous"
}

// audit enriches an event with request correlation data and enqueues it.
func (h *ConfigHandler) audit(c *gin.Context, event auditDomain.Event) {
	event = event.WithSourceIP(c.ClientIP())
	if id := requestid.Get(c); id != "" {
		event = event.WithRequestID(id)
	}
	h.auditUseCase.Log(event)
}

// SetHandler creates a new configuration entry or updates an existing one.
// POST /api/v1/configs/:namespace/:key
// The body carries the value, an optional environment, an optional acting
// user, and a secret flag. Secret values must be JSON strings and are stored
// encrypted.
func (h *ConfigHandler) SetHandler(c *gin.Context) {
	namespace, key, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}

	var req dto.SetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	environment, ok := h.environment(c, req.Env)
	if !ok {
		return
	}

	user := req.User
	if user == "" {
		user = h.user(c)
	}

	var entry *configsDomain.Entry
	var err error
	if req.Secret {
		var plaintext string
		if jsonErr := json.Unmarshal(req.Value, &plaintext); jsonErr != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("secret values must be strings"), h.logger)
			return
		}
		entry, err = h.configUseCase.SetSecret(c.Request.Context(), namespace, key, []byte(plaintext), environment, user)
	} else {
		var value configsDomain.Value
		if jsonErr := json.Unmarshal(req.Value, &value); jsonErr != nil {
			httputil.HandleValidationErrorGin(c, jsonErr, h.logger)
			return
		}
		entry, err = h.configUseCase.Set(c.Request.Context(), namespace, key, value, environment, user)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	switch {
	case req.Secret:
		h.audit(c, auditDomain.NewSecretModified(namespace, key, environment, user))
	case entry.Version == 1:
		h.audit(c, auditDomain.NewConfigCreated(namespace, key, environment, user))
	default:
		h.audit(c, auditDomain.NewConfigUpdated(namespace, key, environment, user, entry.Version-1, entry.Version))
	}

	c.JSON(http.StatusOK, dto.MapEntryToResponse(entry))
}

// GetHandler retrieves a configuration entry, decrypting secret values.
// GET /api/v1/configs/:namespace/:key?env=production&with_overrides=true
// With with_overrides the environment override chain is applied.
func (h *ConfigHandler) GetHandler(c *gin.Context) {
	namespace, key, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}
	environment, ok := h.environment(c, "")
	if !ok {
		return
	}

	var entry *configsDomain.Entry
	var err error
	if withOverrides := c.Query("with_overrides"); withOverrides == "true" || withOverrides == "1" {
		entry, err = h.configUseCase.GetWithOverrides(c.Request.Context(), namespace, key, environment)
	} else {
		entry, err = h.configUseCase.Get(c.Request.Context(), namespace, key, environment)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.NewConfigAccessed(namespace, key, environment, h.user(c)))

	c.JSON(http.StatusOK, dto.MapEntryToResponse(entry))
}

// GetSecretHandler returns the raw decrypted bytes of a secret value.
// GET /api/v1/configs/:namespace/:key/secret?env=production
func (h *ConfigHandler) GetSecretHandler(c *gin.Context) {
	namespace, key, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}
	environment, ok := h.environment(c, "")
	if !ok {
		return
	}

	plaintext, err := h.configUseCase.GetSecret(c.Request.Context(), namespace, key, environment)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.NewSecretAccessed(namespace, key, environment, h.user(c)))

	c.JSON(http.StatusOK, dto.SecretValueResponse{
		Namespace:   namespace,
		Key:         key,
		Environment: string(environment),
		Value:       plaintext,
	})
}

// ListHandler returns every entry of a namespace in one environment, sorted
// by key. Secret values stay masked.
// GET /api/v1/configs/:namespace?env=production
func (h *ConfigHandler) ListHandler(c *gin.Context) {
	namespace, _, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}
	environment, ok := h.environment(c, "")
	if !ok {
		return
	}

	entries, err := h.configUseCase.ListEntries(c.Request.Context(), namespace, environment)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntriesToResponse(entries))
}

// DeleteHandler removes the current entry, keeping its version history.
// DELETE /api/v1/configs/:namespace/:key?env=production
// Returns 204 No Content.
func (h *ConfigHandler) DeleteHandler(c *gin.Context) {
	namespace, key, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}
	environment, ok := h.environment(c, "")
	if !ok {
		return
	}

	if err := h.configUseCase.Delete(c.Request.Context(), namespace, key, environment); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.NewConfigDeleted(namespace, key, environment, h.user(c)))

	c.Data(http.StatusNoContent, "application/json", nil)
}

// HistoryHandler returns the version history of an entry, newest first.
// GET /api/v1/configs/:namespace/:key/history?env=production&offset=0&limit=50
func (h *ConfigHandler) HistoryHandler(c *gin.Context) {
	namespace, key, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}
	environment, ok := h.environment(c, "")
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	versions, err := h.configUseCase.GetHistory(c.Request.Context(), namespace, key, environment)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	total := len(versions)
	page := versions[min(offset, total):min(offset+limit, total)]

	c.JSON(http.StatusOK, dto.MapVersionsToResponse(page))
}

// RollbackHandler restores a past version as a new head version.
// POST /api/v1/configs/:namespace/:key/rollback/:version?env=production
func (h *ConfigHandler) RollbackHandler(c *gin.Context) {
	namespace, key, ok := h.pathIdentifiers(c)
	if !ok {
		return
	}
	environment, ok := h.environment(c, "")
	if !ok {
		return
	}

	targetVersion, err := strconv.ParseUint(c.Param("version"), 10, 64)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid version parameter: must be a positive integer"),
			h.logger,
		)
		return
	}

	user := h.user(c)
	entry, err := h.configUseCase.Rollback(c.Request.Context(), namespace, key, environment, targetVersion, user)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.audit(c, auditDomain.NewConfigRolledBack(namespace, key, environment, user, targetVersion, entry.Version))

	c.JSON(http.StatusOK, dto.MapEntryToResponse(entry))
}

// CacheStatsHandler reports cache effectiveness for both tiers.
// GET /api/v1/cache/stats
func (h *ConfigHandler) CacheStatsHandler(c *gin.Context) {
	l1, l2Entries := h.configUseCase.CacheStats()
	c.JSON(http.StatusOK, dto.CacheStatsResponse{L1: l1, L2Entries: l2Entries})
}
