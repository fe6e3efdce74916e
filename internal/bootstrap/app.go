package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	googleauth "cruzados-backend/internal/auth"
	"cruzados-backend/internal/mail"
	"cruzados-backend/internal/members"
	"cruzados-backend/internal/modal"
	"cruzados-backend/internal/records"
	"cruzados-backend/internal/services/health"
	sharedauth "cruzados-backend/internal/shared/auth"
	"cruzados-backend/internal/shared/config"
	"cruzados-backend/internal/shared/server"
	"cruzados-backend/internal/shared/storage/db"
	"cruzados-backend/internal/shared/storage/object"
	localstore "cruzados-backend/internal/shared/storage/object/local"
	s3store "cruzados-backend/internal/shared/storage/object/s3"
	"cruzados-backend/internal/shared/telemetry"
	"cruzados-backend/internal/users"
)

// App holds the wired dependencies of one process.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Firestore *firestore.Client
	Store     object.ObjectStore

	Records *records.Service
	Members *members.Service
	Users   *users.Service
	Issuer  *sharedauth.Issuer
}

// Close releases the store clients opened by Build.
func (a *App) Close() error {
	var err error
	if a.Firestore != nil {
		err = a.Firestore.Close()
	}
	if a.DB != nil {
		if dbErr := a.DB.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// Build connects the configured backends and wires services, handlers and
// the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := buildStores(ctx, app); err != nil {
		_ = app.Close()
		return nil, err
	}
	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Store = store

	issuer, err := sharedauth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL, cfg.Env)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Issuer = issuer

	recordRepo, memberRepo, userRepo := repos(app)

	if cfg.SeedSampleData {
		n, err := records.Seed(ctx, recordRepo)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		telemetry.Info("bootstrap.seeded", map[string]any{"records": n})
	}

	var resolver records.Resolver = records.PlaceholderResolver{}
	if store != nil {
		resolver = &records.ObjectResolver{Store: store}
	}
	app.Records = records.NewService(recordRepo, resolver)

	sender := mail.NewSender(cfg.ResendAPIKey)
	notifier := mail.NewNotifier(sender, cfg.MailFrom, cfg.MailTo)
	app.Members = members.NewService(memberRepo, notifier)
	app.Users = users.NewService(userRepo)

	google := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		issuer,
		app.Users,
	)

	deps := server.RouterDeps{
		Config:   cfg,
		Verifier: issuer,
		Health: &health.Service{
			RecordStore: cfg.RecordStore,
			ObjectStore: cfg.ObjectStoreType,
			Mail:        strings.TrimSpace(cfg.ResendAPIKey) != "",
		},
		RecordHandler: records.NewHandler(app.Records, cfg.MaxUploadBytes),
		ModalHandler:  &modal.Handler{Records: app.Records, Getter: recordRepo},
		MemberHandler: members.NewHandler(app.Members),
		UserHandler:   users.NewHandler(app.Users),
		GoogleAuth:    google,
	}
	if app.DB != nil {
		deps.Health.DB = app.DB
	}
	if cfg.ObjectStoreType == config.ObjectLocal {
		deps.Files = store
	}
	app.Router = server.NewRouter(deps)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"record_store": cfg.RecordStore,
		"object_store": cfg.ObjectStoreType,
	})
	return app, nil
}

func buildStores(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.RecordStore {
	case config.StorePostgres:
		var (
			sqlDB *sql.DB
			err   error
		)
		if db.IsLambdaRuntime() {
			sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
		} else {
			sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		}
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		app.DB = sqlDB
	case config.StoreFirestore:
		var opts []option.ClientOption
		if file := strings.TrimSpace(cfg.FirestoreCredentialsFile); file != "" {
			opts = append(opts, option.WithCredentialsFile(file))
		}
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, opts...)
		if err != nil {
			return fmt.Errorf("firestore client: %w", err)
		}
		app.Firestore = client
	default:
		telemetry.Warn("bootstrap.memory_store", map[string]any{"env": cfg.Env})
	}
	return nil
}

// repos picks the repository implementations for the configured record
// store. Accounts are kept in memory unless Postgres is configured.
func repos(app *App) (records.Repo, members.Repo, users.Repo) {
	clock := records.NewClock(nil)
	switch {
	case app.DB != nil:
		return &records.PGRepo{DB: app.DB, Clock: clock}, &members.PGRepo{DB: app.DB}, &users.PGRepo{DB: app.DB}
	case app.Firestore != nil:
		return &records.FirestoreRepo{Client: app.Firestore, Clock: clock},
			&members.FirestoreRepo{Client: app.Firestore},
			users.NewMemoryRepo()
	default:
		return records.NewMemoryRepo(clock), members.NewMemoryRepo(), users.NewMemoryRepo()
	}
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case config.ObjectS3:
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			KMSKeyID:      cfg.SSEKMSKeyID,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	case config.ObjectLocal:
		return localstore.New(cfg.LocalStoreDir, cfg.LocalStoreBaseURL), nil
	default:
		return nil, nil
	}
}
