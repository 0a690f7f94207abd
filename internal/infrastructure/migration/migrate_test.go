package migration

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/b2bprocure/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var migrationName = regexp.MustCompile(`^\d{6}_[a-z_]+\.(up|down)\.sql$`)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		assert.Regexp(t, migrationName, name)
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.Equal(t, ups, downs)
}

func TestBasketIndexIsMigrated(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, "000002_orders.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "idx_orders_one_basket ON orders (user_id) WHERE status = 'temporary'")
}
