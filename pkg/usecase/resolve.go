package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// resolveUsers resolves user IDs concurrently. Results are in argument order;
// an empty ID yields nil at its position.
func resolveUsers(ctx context.Context, resolver interfaces.UserResolver, userIDs ...string) ([]*model.User, error) {
	users := make([]*model.User, len(userIDs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, id := range userIDs {
		if id == "" {
			continue
		}
		eg.Go(func() error {
			user, err := resolver.ResolveUser(ctx, id)
			if err != nil {
				return goerr.Wrap(err, "failed to resolve user", goerr.V(model.UserIDKey, id))
			}
			users[i] = user
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}

func displayName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}
