package cli

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/utils/logging"
	"github.com/secmon-lab/modcase/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("MODCASE_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("MODCASE_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix of Firestore collection names",
				Sources:     cli.EnvVars("MODCASE_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runMigrate(ctx, projectID, databaseID, collectionPrefix, dryRun)
		},
	}
}

// runMigrate applies the case indexes, or only logs the planned changes when dryRun is set.
// An empty databaseID selects the default database.
func runMigrate(ctx context.Context, projectID, databaseID, collectionPrefix string, dryRun bool) error {
	logger := logging.Default()
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	logger.Info("Migrate configuration",
		"projectID", projectID,
		"databaseID", databaseID,
		"collectionPrefix", collectionPrefix,
		"dryRun", dryRun)

	indexConfig := getIndexConfig(collectionPrefix)
	if err := indexConfig.Validate(); err != nil {
		return goerr.Wrap(err, "invalid index configuration")
	}

	client, err := fireconf.New(ctx, projectID, databaseID, indexConfig,
		fireconf.WithLogger(logger),
		fireconf.WithDryRun(dryRun),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}
	defer safe.Close(ctx, client)

	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations", goerr.V("dryRun", dryRun))
	}

	if dryRun {
		logger.Info("Dry run completed, no index was changed")
	} else {
		logger.Info("Migrations applied successfully")
	}
	return nil
}

func asc(path string) fireconf.IndexField {
	return fireconf.IndexField{Path: path, Order: fireconf.OrderAscending}
}

func desc(path string) fireconf.IndexField {
	return fireconf.IndexField{Path: path, Order: fireconf.OrderDescending}
}

// getIndexConfig returns the composite indexes of the cases collection. Every lookup
// exists once restricted to a guild and once over all guilds for global numbering.
func getIndexConfig(collectionPrefix string) *fireconf.Config {
	name := "cases"
	if collectionPrefix != "" {
		name = collectionPrefix + "_cases"
	}

	queries := [][]fireconf.IndexField{
		// GetByCaseNumber: case_number ==, created_at ASC
		{asc("case_number"), asc("created_at")},
		// GetLatestByModID: mod_id ==, case_number DESC
		{asc("mod_id"), desc("case_number")},
		// ListByUserID: user_id ==, case_number ASC
		{asc("user_id"), asc("case_number")},
		// ListByUserIDAndModID: user_id ==, mod_id ==, case_number ASC
		{asc("user_id"), asc("mod_id"), asc("case_number")},
	}

	indexes := make([]fireconf.Index, 0, len(queries)*2)
	for _, fields := range queries {
		indexes = append(indexes,
			fireconf.Index{Fields: append([]fireconf.IndexField{asc("guild_id")}, fields...)},
			fireconf.Index{Fields: fields},
		)
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{Name: name, Indexes: indexes},
		},
	}
}
