// Package services implements the portal's domain operations on top of the
// generic repository layer. Each service owns the collections it reads and
// writes; repositories are shared through the datasource so two services
// backing the same collection see the same registration.
package services

import (
	"github.com/cardline/portal-rest/database"
)

// repositoryFor returns the datasource's repository for T, creating and
// registering it on first use. Model registration is single-shot in the
// datasource, so every service goes through here instead of constructing
// repositories directly.
func repositoryFor[T database.IModel](ds *database.Datasource) (database.Repository[T], error) {
	var model T
	if repo, err := database.GetDatasourceModelRepository(ds, model); err == nil {
		return repo, nil
	}
	return database.NewMongoRepository[T](ds, database.RepositoryOptions{})
}
