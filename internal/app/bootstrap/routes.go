// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	approvalsfeature "github.com/dalemusser/kinhub/internal/app/features/approvals"
	authnfeature "github.com/dalemusser/kinhub/internal/app/features/authn"
	eventsfeature "github.com/dalemusser/kinhub/internal/app/features/events"
	familyfeature "github.com/dalemusser/kinhub/internal/app/features/family"
	healthfeature "github.com/dalemusser/kinhub/internal/app/features/health"
	membersfeature "github.com/dalemusser/kinhub/internal/app/features/members"
	newsfeature "github.com/dalemusser/kinhub/internal/app/features/news"
	registrationfeature "github.com/dalemusser/kinhub/internal/app/features/registration"
	statsfeature "github.com/dalemusser/kinhub/internal/app/features/stats"
	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	eventstore "github.com/dalemusser/kinhub/internal/app/store/events"
	memberstore "github.com/dalemusser/kinhub/internal/app/store/members"
	newsstore "github.com/dalemusser/kinhub/internal/app/store/news"
	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/approval"
	"github.com/dalemusser/kinhub/internal/app/system/auth"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// KinHub builds the token signer, wires the stores into the approval
// service, and mounts the JSON API: public registration and login, the
// member-facing family/news/events surface, and the admin surface for
// approvals, member management, content, and stats.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokens(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token signer init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	members := memberstore.New(db)
	subs := submissionstore.New(db)
	creds := credentialstore.New(db)
	news := newsstore.New(db)
	events := eventstore.New(db)

	approvalSvc := &approval.Service{
		Subs:       subs,
		Members:    members,
		Creds:      creds,
		Client:     deps.MongoClient,
		BcryptCost: appCfg.BcryptCost,
		Log:        logger,
	}

	r := chi.NewRouter()

	// Global auth middleware: a valid bearer token loads the user into
	// context; requests without one pass through anonymous.
	r.Use(tokens.LoadBearerUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public endpoints
	registrationHandler := registrationfeature.NewHandler(subs, logger)
	r.Mount("/api/register", registrationfeature.Routes(registrationHandler))

	authnHandler := authnfeature.NewHandler(creds, members, tokens, logger)
	r.Mount("/api/auth", authnfeature.Routes(authnHandler))

	// Member-facing surface
	familyHandler := familyfeature.NewHandler(members, logger)
	r.Mount("/api/family", familyfeature.Routes(familyHandler))

	newsHandler := newsfeature.NewHandler(news, members, logger)
	r.Mount("/api/news", newsfeature.Routes(newsHandler))

	eventsHandler := eventsfeature.NewHandler(events, members, logger)
	r.Mount("/api/events", eventsfeature.Routes(eventsHandler))

	// Admin surface
	membersHandler := membersfeature.NewHandler(members, creds, subs, logger)
	r.Mount("/api/admin/members", membersfeature.Routes(membersHandler))

	approvalsHandler := approvalsfeature.NewHandler(approvalSvc, subs, logger)
	r.Mount("/api/admin/hierarchy-forms", approvalsfeature.Routes(approvalsHandler, models.KindHierarchyForm))
	r.Mount("/api/admin/temp-members", approvalsfeature.Routes(approvalsHandler, models.KindTempMember))

	r.Mount("/api/admin/news", newsfeature.AdminRoutes(newsHandler))
	r.Mount("/api/admin/events", eventsfeature.AdminRoutes(eventsHandler))

	statsHandler := statsfeature.NewHandler(members, creds, subs, logger)
	r.Mount("/api/admin/stats", statsfeature.Routes(statsHandler))

	return r, nil
}
