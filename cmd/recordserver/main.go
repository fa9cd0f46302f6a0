package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/tamatebox/record-collection-app/internal/database"
	"github.com/tamatebox/record-collection-app/internal/discogs"
	"github.com/tamatebox/record-collection-app/internal/images"
	"github.com/tamatebox/record-collection-app/internal/prefs"
	"github.com/tamatebox/record-collection-app/internal/server"
)

func main() {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		log.Printf("no .env file found, skipping")
	} else if err != nil {
		log.Fatalf("failed loading .env file: %s", err)
	}

	app := cli.NewApp()
	app.Name = "recordserver"
	app.Usage = "Vinyl record collection server."
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   3001,
			Usage:   "port to run server on",
			EnvVars: []string{"RECORDS_PORT"},
		},
		&cli.StringFlag{
			Name:    "database-path",
			Value:   "records.db",
			Usage:   "path of the sqlite database file",
			EnvVars: []string{"RECORDS_DB_PATH"},
		},
		&cli.StringFlag{
			Name:    "data-directory",
			Value:   "data",
			Usage:   "directory where cover images and preferences are stored",
			EnvVars: []string{"RECORDS_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "discogs-token",
			Usage:   "shared discogs personal access token",
			EnvVars: []string{"DISCOGS_PERSONAL_ACCESS_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "when set, record mutations require this token",
			EnvVars: []string{"RECORDS_API_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "session-secret",
			Usage:   "secret used to sign session cookies",
			EnvVars: []string{"RECORDS_SESSION_SECRET"},
		},
		&cli.StringFlag{
			Name:    "image-storage",
			Value:   "local",
			Usage:   "cover image backend, local or s3",
			EnvVars: []string{"RECORDS_IMAGE_STORAGE"},
		},
		&cli.StringFlag{
			Name:    "s3-bucket",
			Usage:   "bucket for the s3 image backend",
			EnvVars: []string{"RECORDS_S3_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "s3-region",
			Value:   "us-east-1",
			Usage:   "region for the s3 image backend",
			EnvVars: []string{"RECORDS_S3_REGION"},
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "custom endpoint for s3-compatible storage",
			EnvVars: []string{"RECORDS_S3_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "s3-access-key",
			Usage:   "access key for the s3 image backend",
			EnvVars: []string{"RECORDS_S3_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "s3-secret-key",
			Usage:   "secret key for the s3 image backend",
			EnvVars: []string{"RECORDS_S3_SECRET_KEY"},
		},
	}
	app.Action = func(ctx *cli.Context) error {
		db, err := database.New(ctx.String("database-path"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		provider, err := newImageProvider(ctx)
		if err != nil {
			return fmt.Errorf("initializing image storage: %w", err)
		}

		handler := server.New(
			db,
			images.NewStore(provider),
			discogs.NewClient(),
			prefs.NewFileStore(filepath.Join(ctx.String("data-directory"), "preferences.json")),
			server.Options{
				DiscogsToken:  ctx.String("discogs-token"),
				APIToken:      ctx.String("api-token"),
				SessionSecret: sessionSecret(ctx.String("session-secret")),
			},
		)

		// Start HTTP handler.
		quit := make(chan os.Signal, 2)
		var wg sync.WaitGroup
		wg.Add(1)

		httpServer := &http.Server{Addr: ":" + strconv.Itoa(ctx.Int("port")), Handler: handler}

		go func() {
			defer wg.Done()

			slog.Info("serving", "address", httpServer.Addr)

			err := httpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "failed to start server: %s\n", err)
				quit <- os.Interrupt
			}
		}()

		signal.Notify(
			quit,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGHUP,
		)
		<-quit

		slog.Info("Server shutting down...")

		go httpServer.Close()

		wg.Wait()
		return nil
	}

	err = app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newImageProvider(ctx *cli.Context) (images.Provider, error) {
	switch ctx.String("image-storage") {
	case "local":
		return images.NewLocalProvider(filepath.Join(ctx.String("data-directory"), "covers"))
	case "s3":
		bucket := ctx.String("s3-bucket")
		if bucket == "" {
			return nil, errors.New("s3-bucket is required for s3 image storage")
		}

		cfg := aws.Config{
			Region: ctx.String("s3-region"),
			Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     ctx.String("s3-access-key"),
					SecretAccessKey: ctx.String("s3-secret-key"),
				}, nil
			}),
		}

		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			if endpoint := ctx.String("s3-endpoint"); endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
		})

		return images.NewS3Provider(client, bucket, "record-covers/full-size"), nil
	default:
		return nil, fmt.Errorf("unknown image storage %q", ctx.String("image-storage"))
	}
}

// sessionSecret falls back to a random, per-process secret. Sessions then
// stop surviving restarts, which is fine for a single-user setup.
func sessionSecret(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}

	slog.Warn("no session secret configured, sessions will not survive restarts")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("failed generating session secret: %s", err)
	}
	return secret
}
