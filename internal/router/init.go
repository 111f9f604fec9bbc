package router

import (
	"github.com/bintangpradana/pressadmin/internal/application"
	"github.com/bintangpradana/pressadmin/internal/container"
	pginfra "github.com/bintangpradana/pressadmin/internal/infrastructure/postgres"
	"github.com/bintangpradana/pressadmin/internal/infrastructure/search"
	handlers "github.com/bintangpradana/pressadmin/internal/interface/http"
	"github.com/bintangpradana/pressadmin/internal/router/modules"
	"github.com/bintangpradana/pressadmin/pkg/helpers"
)

// InitModules constructs repositories, services and handlers from the
// container singletons and registers every feature module. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	otps := pginfra.NewOTPRepository(pool)
	regs := pginfra.NewRegistrationRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	categories := pginfra.NewCategoryRepository(pool)
	tags := pginfra.NewTagRepository(pool)
	media := pginfra.NewMediaRepository(pool)
	audit := pginfra.NewAuditRepository(pool)

	// A nil *RabbitPublisher must stay a nil interface, otherwise the
	// services' nil checks stop working.
	var publisher application.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		publisher = pub
	}

	postIndex := search.NewPostIndex(container.GetES(), cfg.ESPostsIndex, logger)
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	authSvc := &application.AuthService{
		Users:         users,
		OTPs:          otps,
		Registrations: regs,
		Redis:         container.GetRedis(),
		JWT:           container.GetJWT(),
		Publisher:     publisher,
		Logger:        logger,
		AppBaseURL:    cfg.AppBaseURL,
		OTPLength:     cfg.OTPLength,
		OTPTTL:        cfg.OTPTTL,
		MailOn:        cfg.MailSendEnabled,
	}
	approvalSvc := &application.ApprovalService{
		Users:         users,
		Registrations: regs,
		Publisher:     publisher,
		Logger:        logger,
		AppBaseURL:    cfg.AppBaseURL,
		MailOn:        cfg.MailSendEnabled,
	}
	blogSvc := &application.BlogService{
		Posts:      posts,
		Categories: categories,
		Tags:       tags,
		Media:      media,
		GCS:        container.GetGCS(),
		GCSBucket:  cfg.GCSBucket,
		Index:      postIndex,
		Logger:     logger,
	}

	authHandler := handlers.NewAuthHandler(authSvc, audit, logger, cookies, cfg.AdminActivationKey)
	regHandler := handlers.NewRegistrationHandler(approvalSvc, audit, logger)
	blogHandler := handlers.NewBlogHandler(blogSvc, logger)
	mediaHandler := handlers.NewMediaHandler(blogSvc, logger)

	jwt := container.GetJWT()
	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewRegistrationModule(regHandler, jwt))
	r.Add(modules.NewBlogModule(blogHandler, mediaHandler, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
