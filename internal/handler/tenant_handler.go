package handler

import (
	"fmt"
	"net/http"
	"time"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UpgradeTenant handles upgrading a tenant's plan from free to pro.
// Only an admin may upgrade, and only the tenant they belong to; the
// tenant is identified by slug in the path.
func UpgradeTenant(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		log.Error("Missing identity claims in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	slug := c.Param("slug")

	if claims.Role != model.RoleAdmin {
		log.Warn("Non-admin attempted tenant upgrade",
			zap.Uint("user_id", claims.UserID),
			zap.String("role", string(claims.Role)),
			zap.String("slug", slug))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can upgrade"})
	}

	if claims.TenantSlug != slug {
		log.Warn("Admin attempted to upgrade another tenant",
			zap.Uint("user_id", claims.UserID),
			zap.String("own_slug", claims.TenantSlug),
			zap.String("target_slug", slug))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admins can only upgrade their own tenant"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(&model.Tenant{}).
		Where("slug = ?", slug).
		Update("plan", model.PlanPro)
	if result.Error != nil {
		log.Error("Failed to upgrade tenant",
			zap.String("slug", slug),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upgrade tenant"})
	}

	if result.RowsAffected == 0 {
		log.Warn("Tenant not found for upgrade", zap.String("slug", slug))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	prometheus.TenantUpgradeCounter.Inc()

	log.Info("Tenant upgraded to pro",
		zap.String("slug", slug),
		zap.Uint("admin_id", claims.UserID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Tenant %s successfully upgraded to Pro plan.", slug),
	})
}
