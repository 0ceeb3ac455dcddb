package cli_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/cli"
)

func TestGetIndexConfig(t *testing.T) {
	t.Run("scoped and global variant of every query", func(t *testing.T) {
		cfg := cli.GetIndexConfig("")
		gt.Array(t, cfg.Collections).Length(1)
		gt.Value(t, cfg.Collections[0].Name).Equal("cases")

		indexes := cfg.Collections[0].Indexes
		gt.Array(t, indexes).Length(8)
		for i := 0; i < len(indexes); i += 2 {
			scoped, global := indexes[i].Fields, indexes[i+1].Fields
			gt.Value(t, scoped[0].Path).Equal("guild_id")
			gt.Value(t, len(scoped)).Equal(len(global) + 1)
			for j, f := range global {
				gt.Value(t, scoped[j+1]).Equal(f)
			}
		}

		// latest case of a moderator is found by descending number
		gt.Value(t, indexes[3].Fields[1]).Equal(fireconf.IndexField{Path: "case_number", Order: fireconf.OrderDescending})
	})

	t.Run("collection prefix", func(t *testing.T) {
		cfg := cli.GetIndexConfig("staging")
		gt.Value(t, cfg.Collections[0].Name).Equal("staging_cases")
	})

	t.Run("accepted by fireconf", func(t *testing.T) {
		gt.NoError(t, cli.GetIndexConfig("").Validate())
		gt.NoError(t, cli.GetIndexConfig("staging").Validate())
	})
}

func TestRunMigrate(t *testing.T) {
	t.Run("project ID is required", func(t *testing.T) {
		err := cli.RunMigrate(context.Background(), "", "", "", true)
		gt.Value(t, err).NotNil()
	})
}
