package router

import (
	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/container"
	pginfra "github.com/soundvault/vinylstore/internal/infrastructure/postgres"
	handlers "github.com/soundvault/vinylstore/internal/interface/http"
	"github.com/soundvault/vinylstore/internal/router/modules"
)

// Deps holds everything the HTTP modules need. The long-lived services
// (sessions, cart, checkout) are created in main so the cart watcher can be
// started before the server accepts traffic; everything else is built here.
type Deps struct {
	Users    *application.UserService
	Catalog  *application.CatalogService
	Auth     *handlers.AuthHandler
	Profile  *handlers.UserHandler
	Vinyls   *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Admin    *handlers.AdminHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	vinylRepo := pginfra.NewVinylRepository(pool)

	creds := application.CredentialCodec{Bcrypt: cfg.AuthBcryptEnabled}

	users := application.NewUserService(userRepo, creds, logger, container.GetGCS(), cfg.GCSBucket)
	catalog := application.NewCatalogService(vinylRepo, logger, container.GetES(), cfg.ESVinylsIndex)

	auth := handlers.NewAuthHandler(
		container.GetSessions(),
		users,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		cfg,
		container.GetRabbitPub(),
	)
	profile := handlers.NewUserHandler(users, logger)
	vinyls := handlers.NewCatalogHandler(catalog, logger)
	cart := handlers.NewCartHandler(container.GetCart(), catalog, logger)
	checkout := handlers.NewCheckoutHandler(container.GetCheckout(), container.GetCart(), logger)
	admin := handlers.NewAdminHandler(catalog, users, container.GetCheckout(), logger)

	return Deps{
		Users:    users,
		Catalog:  catalog,
		Auth:     auth,
		Profile:  profile,
		Vinyls:   vinyls,
		Cart:     cart,
		Checkout: checkout,
		Admin:    admin,
	}
}

// InitModules wires all feature modules into the router registry. Call once
// during startup, after the container singletons are set.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.Auth, jwt))
	r.Add(modules.NewProfileModule(deps.Profile, jwt))
	r.Add(modules.NewCatalogModule(deps.Vinyls))
	r.Add(modules.NewCartModule(deps.Cart, jwt))
	r.Add(modules.NewCheckoutModule(deps.Checkout, jwt))
	r.Add(modules.NewAdminModule(deps.Admin, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
