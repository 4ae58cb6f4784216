package storage

import (
	"context"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Storage archives files to an S3 bucket via the AWS SDK.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewS3Storage creates an S3 storage instance for bucket/prefix.
func NewS3Storage(bucket, prefix string, opts Options, logger *zap.Logger) (*S3Storage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.AWSRegion))
	}
	if opts.AWSProfile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.AWSProfile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, newError("aws_config", bucket, BackendS3, err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.AWSEndpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.AWSEndpoint)
			o.UsePathStyle = true // Required for custom endpoints
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	logger.Info("S3 storage initialized",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.String("region", opts.AWSRegion),
		zap.String("endpoint", opts.AWSEndpoint))

	return &S3Storage{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Upload puts a local file into the bucket under prefix/remotePath.
func (s *S3Storage) Upload(ctx context.Context, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return newError("upload", localPath, BackendS3, err)
	}
	defer f.Close()

	key := remotePath
	if s.prefix != "" {
		key = path.Join(s.prefix, remotePath)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return newError("upload", s.bucket+"/"+key, BackendS3, err)
	}

	s.logger.Debug("Uploaded file to S3",
		zap.String("source", localPath),
		zap.String("bucket", s.bucket),
		zap.String("key", key))
	return nil
}

// Close is a no-op; the S3 client holds no persistent connections.
func (s *S3Storage) Close() error {
	return nil
}
