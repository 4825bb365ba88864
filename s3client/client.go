package s3client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"qualibot.com/qualifier/logger"
)

var ErrNoSession = errors.New("s3: no session")

type EnvironmentConfig struct {
	BucketName  string `envconfig:"QUALIFIER_STORAGE_CONTAINER_NAME" required:"true"`
	Environment string `envconfig:"QUALIFIER_ENV" default:"prod"`
	Region      string `envconfig:"QUALIFIER_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"QUALIFIER_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"QUALIFIER_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"QUALIFIER_AWS_ACCESS_KEY" default:""`
}

// Client stores message texts and qualifier results in one bucket. The
// session is re-acquired once when a transfer fails.
type Client struct {
	env    EnvironmentConfig
	mu     sync.Mutex
	sess   *session.Session
	logger zerolog.Logger
}

var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	clientLogger := logger.NewLogger("S3Client")
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := Client{env: env, logger: clientLogger}
	if _, err := client.refresh(nil); err != nil {
		return nil, err
	}
	return &client, nil
}

func (client *Client) Upload(ctx context.Context, data string, key string) (*s3manager.UploadOutput, error) {
	params := &s3manager.UploadInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
	}
	var output *s3manager.UploadOutput
	err := client.withSession(func(sess *session.Session) error {
		params.Body = strings.NewReader(data)
		uploader := s3manager.NewUploader(client.sdkSession(sess, key))
		client.logger.Debug().Str("key", key).Msg("Uploading the file")
		var err error
		output, err = uploader.UploadWithContext(ctx, params)
		return err
	})
	return output, err
}

func (client *Client) Download(ctx context.Context, key string) ([]byte, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
	}
	var data []byte
	err := client.withSession(func(sess *session.Session) error {
		downloader := s3manager.NewDownloader(client.sdkSession(sess, key))
		buf := aws.NewWriteAtBuffer([]byte{})
		size, err := downloader.DownloadWithContext(ctx, buf, params)
		if err != nil {
			return err
		}
		client.logger.Debug().Str("key", key).Int64("size", size).Msg("Downloaded file")
		data = buf.Bytes()
		return nil
	})
	return data, err
}

func (client *Client) Close() {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.sess = nil
}

// withSession runs transfer and retries it once on a fresh session.
func (client *Client) withSession(transfer func(sess *session.Session) error) error {
	client.mu.Lock()
	sess := client.sess
	client.mu.Unlock()
	if sess == nil {
		return ErrNoSession
	}

	err := transfer(sess)
	if err == nil {
		return nil
	}
	client.logger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
	if sess, err = client.refresh(sess); err != nil {
		return err
	}
	return transfer(sess)
}

func (client *Client) sdkSession(sess *session.Session, key string) *session.Session {
	sdkLog := sdkLogger.With().Str("key", key).Str("bucket", client.env.BucketName).Logger()
	return sess.Copy(&aws.Config{Logger: &s3Logger{sdkLog}})
}

// refresh replaces stale with a new session, unless another transfer did it
// already.
func (client *Client) refresh(stale *session.Session) (*session.Session, error) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.sess != nil && client.sess != stale {
		return client.sess, nil
	}

	for _, cfg := range []*aws.Config{client.instanceConfig(), client.envConfig()} {
		sess, err := session.NewSession(cfg)
		if err != nil {
			continue
		}
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
			client.logger.Info().Err(err).Msg("Could not verify S3 session credentials")
			continue
		}
		client.sess = sess
		client.logger.Info().Msg("S3 session successfully initialized")
		return sess, nil
	}
	client.sess = nil
	return nil, fmt.Errorf("%w: could not initialize S3 session", ErrNoSession)
}

func (client *Client) instanceConfig() *aws.Config {
	return aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(4).
		WithLogLevel(aws.LogDebug)
}

func (client *Client) envConfig() *aws.Config {
	cfg := client.instanceConfig().
		WithCredentials(credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, ""))
	if client.env.Environment == "dev" && client.env.AwsEndpoint != "" {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}

type s3Logger struct {
	logger zerolog.Logger
}

func (logger *s3Logger) Log(v ...interface{}) {
	logger.logger.Debug().Msg(fmt.Sprint(v...))
}
