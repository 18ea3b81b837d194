package repomanager

import (
	"context"
	"database/sql"

	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/repositories/categories"
	"github.com/akoselev/eshop/internal/server/repositories/products"
	"github.com/akoselev/eshop/internal/server/repositories/refreshtokens"
	"github.com/akoselev/eshop/internal/server/repositories/reviews"
	"github.com/akoselev/eshop/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Products(db dbx.DBTX) products.Repository
	Categories(db dbx.DBTX) categories.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
