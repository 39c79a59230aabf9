package postgres

import (
	"github.com/simaogato/bondtracker-backend/internal/adapter/repository/sqlkv"
	"github.com/simaogato/bondtracker-backend/internal/domain"
)

var settingsQueries = sqlkv.Queries{
	Select: `
		SELECT kind, value
		FROM bond_settings
		WHERE namespace = $1 AND key = $2
	`,
	Upsert: `
		INSERT INTO bond_settings (namespace, key, kind, value, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET kind = EXCLUDED.kind, value = EXCLUDED.value, updated_at = now()
	`,
}

// NewSettingsRepository creates a settings repository implementing domain.SettingsStore
// All keys are scoped to namespace so several deployments can share one database
func NewSettingsRepository(db *DB, namespace string) domain.SettingsStore {
	return sqlkv.NewSettingsRepository(db.DB, namespace, settingsQueries)
}
