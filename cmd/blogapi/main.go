package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kmsblog/blogapi/modules/auth"
	"github.com/kmsblog/blogapi/modules/comments"
	"github.com/kmsblog/blogapi/modules/notifications"
	"github.com/kmsblog/blogapi/modules/posts"
	"github.com/kmsblog/blogapi/modules/users"
	"github.com/kmsblog/blogapi/pkg/config"
	"github.com/kmsblog/blogapi/pkg/httpserver"
	"github.com/kmsblog/blogapi/pkg/logger"
	"github.com/kmsblog/blogapi/pkg/mongo"
	"github.com/kmsblog/blogapi/pkg/redis"
	"github.com/kmsblog/blogapi/pkg/upload"
	"github.com/kmsblog/blogapi/storage/mongostore"
	"github.com/kmsblog/blogapi/storage/redisstore"
)

type appConfig struct {
	Logger logger.Config
	HTTP   httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
	Auth   auth.Config
	Kakao  auth.KakaoConfig
	S3     upload.S3Config

	// UploadDir backs cover images on local disk when no S3 bucket is set.
	UploadDir string `env:"UPLOAD_LOCAL_DIR" envDefault:"./uploads"`
	UploadURL string `env:"UPLOAD_LOCAL_BASE_URL" envDefault:"/uploads"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	covers, err := coverStorage(ctx, cfg)
	if err != nil {
		return err
	}

	userStore := mongostore.NewUserStore(db)
	postStore := mongostore.NewPostStore(db)
	commentStore := mongostore.NewCommentStore(db)
	notificationStore := mongostore.NewNotificationStore(db)
	stateStore := redisstore.NewStateStore(redisClient, cfg.Kakao.StateTTL)

	sessions, err := auth.NewSessionManager(cfg.Auth)
	if err != nil {
		return err
	}

	authService := auth.NewService(cfg.Auth, userStore, auth.WithLogger(log))
	oauthService := auth.NewOAuthService(userStore, auth.NewKakaoAdapter(cfg.Kakao), stateStore,
		auth.WithOAuthLogger(log))

	notificationService := notifications.NewService(notificationStore,
		notifications.WithLogger(log))
	postService := posts.NewService(postStore, commentStore, commentStore,
		posts.WithCoverStorage(covers),
		posts.WithNotifier(notificationService),
		posts.WithLogger(log))
	commentService := comments.NewService(commentStore, postStore,
		comments.WithNotifier(notificationService),
		comments.WithLogger(log))
	userService := users.NewService(userStore, postStore, commentStore,
		users.WithBcryptCost(cfg.Auth.BcryptCost),
		users.WithLogger(log))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log,
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(redisClient),
	))

	r.Mount("/auth", auth.NewHandler(authService, oauthService, sessions, cfg.Auth.FrontendOrigin).Routes())
	r.Mount("/posts", posts.NewHandler(postService, sessions).Routes())
	r.Mount("/comments", comments.NewHandler(commentService, sessions).Routes())
	r.Mount("/users", users.NewHandler(userService, sessions).Routes())
	r.Mount("/notifications", notifications.NewHandler(notificationService, sessions).Routes())

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	log.Info("starting server", slog.String("addr", cfg.HTTP.Addr))
	return srv.Run(ctx, r)
}

// coverStorage picks S3 when a bucket is configured, local disk otherwise.
func coverStorage(ctx context.Context, cfg appConfig) (upload.Storage, error) {
	if cfg.S3.Bucket != "" {
		return upload.NewS3Storage(ctx, cfg.S3)
	}
	return upload.NewLocalStorage(cfg.UploadDir, cfg.UploadURL)
}
