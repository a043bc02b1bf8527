package main

import (
	"log"
	"os"
	"strconv"
	"time"

	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/api"
	"github.com/cardline/portal-rest/auth"
	"github.com/cardline/portal-rest/authz"
	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/helpers"
	"github.com/cardline/portal-rest/services"
)

func main() {
	connector, err := database.NewDefaultMongoConnector()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ds := &database.Datasource{}
	if err := ds.AddConnector(connector); err != nil {
		log.Fatalf("Failed to register connector: %v", err)
	}

	sessions := auth.NewSessionStore(sessionTTL())

	svc, err := buildServices(ds, sessions)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	// Models are registered as the services construct their repositories, so
	// index creation has to come after buildServices.
	if err := ds.EnsureIndexes(); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	app := rest.NewRestApp(rest.RestAppOptions{
		Name:              "portal-rest",
		Port:              port(),
		Datasource:        ds,
		LogLevel:          rest.LogLevelInfo,
		EnableRateLimiter: helpers.GetEnv("ENABLE_RATE_LIMITER", "true") == "true",
		Authorizer:        auth.NewAuthorizer(sessions),
		AuditLogConfig:    auditLog(),
	})
	defer app.Destroy()

	api.Register(app, svc)

	staticDir := helpers.GetEnv("STATIC_DIR", "./public")
	if _, err := os.Stat(staticDir); err == nil {
		err := app.ServeStatic(rest.StaticConfig{
			Directory:       staticDir,
			EnableSPA:       true,
			ExcludePrefixes: []string{"/api"},
			AssetHeaders:    rest.CachedAssetHeaders(),
		})
		if err != nil {
			log.Fatalf("Failed to serve static files: %v", err)
		}
	}

	if err := app.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func buildServices(ds *database.Datasource, sessions *auth.SessionStore) (*api.Services, error) {
	cards, err := services.NewCardService(ds)
	if err != nil {
		return nil, err
	}

	transactions, err := services.NewTransactionService(ds, cards)
	if err != nil {
		return nil, err
	}

	payments, err := services.NewPaymentService(ds, cards)
	if err != nil {
		return nil, err
	}

	statements, err := services.NewStatementService(ds)
	if err != nil {
		return nil, err
	}

	rewards, err := services.NewRewardService(ds)
	if err != nil {
		return nil, err
	}

	admin, err := services.NewAdminService(ds, cards, sessions)
	if err != nil {
		return nil, err
	}

	provisioning, err := services.NewProvisioningService(ds)
	if err != nil {
		return nil, err
	}

	directory, err := services.NewUserDirectory(ds)
	if err != nil {
		return nil, err
	}

	resolver := auth.NewResolver(auth.ResolverOptions{
		IdentityURL: helpers.GetEnv("IDENTITY_URL", ""),
		LogoutURL:   helpers.GetEnv("IDENTITY_LOGOUT_URL", ""),
		Directory:   directory,
		Provisioner: provisioner(provisioning),
	})

	return &api.Services{
		Provisioning: provisioning,
		Sessions:     sessions,
		Auth:         resolver,
		Policy:       authz.NewPolicy(),
		Cards:        cards,
		Transactions: transactions,
		Payments:     payments,
		Statements:   statements,
		Rewards:      rewards,
		Admin:        admin,
	}, nil
}

// provisioner prefers an external provisioning endpoint when one is
// configured and falls back to creating accounts locally.
func provisioner(local *services.ProvisioningService) auth.Provisioner {
	if url := helpers.GetEnv("PROVISION_URL", ""); url != "" {
		return auth.NewHTTPProvisioner(url)
	}
	return &services.LocalProvisioner{Service: local}
}

func port() uint16 {
	raw := helpers.GetEnv("PORT", "8080")
	value, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		log.Fatalf("Invalid PORT %q: %v", raw, err)
	}
	return uint16(value)
}

func sessionTTL() time.Duration {
	raw := helpers.GetEnv("SESSION_TTL", "12h")
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid SESSION_TTL %q: %v", raw, err)
	}
	return ttl
}

func auditLog() *rest.AuditLogConfig {
	return &rest.AuditLogConfig{
		Enabled: true,
		Handler: func(ctx *rest.EndpointContext, response any, affectedModelId any) error {
			actor := "anonymous"
			if ctx.Principal != nil {
				actor = ctx.Principal.GetPrincipalID()
			}
			ctx.App.Infof("audit %s %s by %s on %s %v from %s",
				ctx.Endpoint.ActionType, ctx.Endpoint.Name, actor, ctx.Endpoint.Model, affectedModelId, ctx.IpAddress)
			return nil
		},
	}
}
