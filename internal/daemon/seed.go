package daemon

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/auth"
	"github.com/mineralhub/mineralhub/internal/config"
	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web/middleware/maintenance"
)

const generatedPasswordBytes = 18

// DefaultSetting is a setting written by SeedSettings when its key is absent.
type DefaultSetting struct {
	Key         string
	Value       *string
	Type        models.SettingType
	Description string
	IsSensitive bool
}

func strPtr(s string) *string {
	return &s
}

// DefaultSettings returns the settings every installation starts with.
func DefaultSettings() []DefaultSetting {
	return []DefaultSetting{
		{orgsetting.KeyPlatformName, strPtr("MineralHub"), models.SettingTypePlatform, "Name shown across the platform", false},
		{orgsetting.KeyMaintenanceMode, strPtr("false"), models.SettingTypePlatform, "Block all non admin traffic with 503", false},
		{orgsetting.KeyMaintenanceMessage, strPtr(maintenance.DefaultMessage),
			models.SettingTypePlatform, "Message shown while maintenance mode is on", false},
		{orgsetting.KeyRegistrationEnabled, strPtr("true"), models.SettingTypeSecurity, "Allow new accounts to sign up", false},
		{orgsetting.KeyMarketplaceEnabled, strPtr("true"), models.SettingTypeBusiness, "Allow new marketplace listings", false},
		{orgsetting.KeyForumEnabled, strPtr("true"), models.SettingTypeContent, "Enable the community forum", false},
		{orgsetting.KeyGalleryEnabled, strPtr("true"), models.SettingTypeContent, "Enable the specimen gallery", false},
		{orgsetting.KeyNewsletterEnabled, strPtr("false"), models.SettingTypeContent, "Enable newsletter sign up", false},
		{orgsetting.KeyInsightsEnabled, strPtr("false"), models.SettingTypeContent, "Enable market insights", false},
		{"smtp_password", nil, models.SettingTypeEmail, "Password of the outbound mail account", true},
	}
}

// SeedRoles creates the system roles if missing.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		role := models.Role{Name: name, IsSystem: true}
		if err := db.WithContext(ctx).Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return pkgerrors.Wrapf(err, "seed role %s", name)
		}
	}

	return nil
}

// SeedAdmin creates the configured admin account when no admin exists yet.
func SeedAdmin(ctx context.Context, db *gorm.DB, authService *auth.Service, cfg config.Admin) error {
	var count int64

	err := db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return pkgerrors.Wrap(err, "count admins")
	}

	if count > 0 {
		return nil
	}

	password := cfg.Password
	if password == "" {
		if password, err = crypt.RandomString(generatedPasswordBytes); err != nil {
			return err
		}

		log.Warn().Str("email", cfg.Email).Str("password", password).
			Msg("generated password for the initial admin account, change it after the first login")
	}

	_, err = authService.CreateUser(ctx, cfg.Name, cfg.Email, password, models.RoleAdmin)
	if errors.Is(err, auth.ErrEmailExists) {
		log.Warn().Str("email", cfg.Email).Msg("admin email already used by a non admin account, skipping admin seed")
		return nil
	}

	if err != nil {
		return pkgerrors.Wrap(err, "seed admin")
	}

	log.Info().Str("email", cfg.Email).Msg("initial admin account created")

	return nil
}

// SeedSettings writes every default setting whose key is absent and returns the keys written.
// Existing values are never overwritten.
func SeedSettings(ctx context.Context, settings *orgsetting.Service) ([]string, error) {
	var written []string

	for _, d := range DefaultSettings() {
		_, err := settings.Get(ctx, d.Key)
		if err == nil {
			continue
		}

		if !errors.Is(err, setting.ErrSettingNotFound) {
			return written, pkgerrors.Wrapf(err, "lookup %s", d.Key)
		}

		if _, err := settings.Upsert(ctx, d.Key, d.Value, d.Type, d.IsSensitive, strPtr(d.Description)); err != nil {
			return written, pkgerrors.Wrapf(err, "seed %s", d.Key)
		}

		written = append(written, d.Key)
	}

	if len(written) > 0 {
		log.Info().Strs("keys", written).Msg("default settings seeded")
	}

	return written, nil
}
